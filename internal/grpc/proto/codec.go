package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName имя кодека, передаётся клиентом как content-subtype
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec сериализует сообщения сервиса в JSON
type Codec struct{}

// Marshal кодирует сообщение
func (Codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal декодирует сообщение
func (Codec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// Name возвращает имя кодека
func (Codec) Name() string {
	return CodecName
}
