package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tempizhere/pageanalyzer/internal/models"
	"go.uber.org/zap"
)

const (
	recordKindURL   = "url"
	recordKindCheck = "check"
)

// FileRecord представляет строку в JSON-файле: адрес либо проверку
type FileRecord struct {
	Kind  string           `json:"kind"`
	URL   *models.URL      `json:"url,omitempty"`
	Check *models.URLCheck `json:"check,omitempty"`
}

// FileRepository хранит данные в памяти и дописывает каждую новую запись в файл.
// Запись попадает в память только после успешной записи в файл.
// При старте файл перечитывается целиком.
type FileRepository struct {
	mem      *MemoryRepository
	filePath string
	logger   *zap.Logger
}

// NewFileRepository создаёт новый экземпляр FileRepository и восстанавливает данные из файла
func NewFileRepository(filePath string, logger *zap.Logger) (*FileRepository, error) {
	repo := &FileRepository{
		mem:      NewMemoryRepository(),
		filePath: filePath,
		logger:   logger,
	}

	// Создаём директорию, если не существует
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, err
	}
	defer file.Close()

	repo.mem.mutex.Lock()
	defer repo.mem.mutex.Unlock()

	// Строки с текстом страниц не ограничены по длине, поэтому читаем через Reader, а не Scanner
	reader := bufio.NewReader(file)
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read storage: %w", readErr)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			repo.restore(line)
		}
		if readErr != nil {
			break
		}
	}

	return repo, nil
}

// restore применяет одну строку файла, вызывается под блокировкой памяти
func (r *FileRepository) restore(line []byte) {
	var record FileRecord
	if err := json.Unmarshal(line, &record); err != nil {
		// Пропускаем некорректные строки и логируем это
		r.logger.Warn("Skipping invalid JSON line", zap.ByteString("line", line), zap.Error(err))
		return
	}
	switch {
	case record.Kind == recordKindURL && record.URL != nil:
		r.mem.putURL(*record.URL)
	case record.Kind == recordKindCheck && record.Check != nil:
		r.mem.putCheck(*record.Check)
	default:
		r.logger.Warn("Skipping unknown record", zap.String("kind", record.Kind))
	}
}

// CreateURL сохраняет адрес и дописывает его в файл, если он новый
func (r *FileRepository) CreateURL(_ context.Context, name string) (models.URL, bool, error) {
	return r.mem.createURL(name, func(u models.URL) error {
		return r.appendRecord(FileRecord{Kind: recordKindURL, URL: &u})
	})
}

// FindURL возвращает адрес по ID
func (r *FileRepository) FindURL(ctx context.Context, id int64) (models.URL, error) {
	return r.mem.FindURL(ctx, id)
}

// ListURLs возвращает адреса с последней проверкой
func (r *FileRepository) ListURLs(ctx context.Context) ([]models.URLListItem, error) {
	return r.mem.ListURLs(ctx)
}

// CreateCheck сохраняет проверку и дописывает её в файл
func (r *FileRepository) CreateCheck(_ context.Context, check models.URLCheck) (models.URLCheck, error) {
	return r.mem.createCheck(check, func(c models.URLCheck) error {
		return r.appendRecord(FileRecord{Kind: recordKindCheck, Check: &c})
	})
}

// ListChecks возвращает проверки адреса
func (r *FileRepository) ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	return r.mem.ListChecks(ctx, urlID)
}

// Stats считает адреса и проверки
func (r *FileRepository) Stats(ctx context.Context) (models.Stats, error) {
	return r.mem.Stats(ctx)
}

// appendRecord дописывает одну строку в конец файла, вызывается под блокировкой памяти
func (r *FileRepository) appendRecord(record FileRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	file, err := os.OpenFile(r.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		r.logger.Error("Failed to open storage file", zap.String("path", r.filePath), zap.Error(err))
		return fmt.Errorf("open storage: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		r.logger.Error("Failed to write storage file", zap.String("path", r.filePath), zap.Error(err))
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
