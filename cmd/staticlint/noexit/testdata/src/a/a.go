package main

import (
	"log"
	"os"
)

func main() {
	defer func() {
		os.Exit(2) // want "прямой вызов os.Exit в функции main запрещен"
	}()
	log.Fatalf("boom: %d", 1) // want "прямой вызов log.Fatalf в функции main запрещен"
	log.Println("ok")
	os.Exit(1) // want "прямой вызов os.Exit в функции main запрещен"
}

func fail() {
	os.Exit(1)
}
