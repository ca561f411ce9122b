package querycache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key — упорядоченный кортеж, идентифицирующий запрос.
// Части сравниваются по JSON-представлению: равные параметры дают равный ключ,
// nil кодируется как null, структуры — в порядке полей.
type Key []any

// NewKey создаёт ключ из частей.
func NewKey(parts ...any) Key {
	return Key(parts).With()
}

// With возвращает новый ключ: k с добавленными частями. k не изменяется.
func (k Key) With(parts ...any) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// String возвращает каноническое представление ключа (JSON-массив).
func (k Key) String() string {
	return "[" + strings.Join(k.encode(), ",") + "]"
}

// HasPrefix сообщает, начинается ли ключ с prefix. Пустой prefix совпадает с любым ключом.
func (k Key) HasPrefix(prefix Key) bool {
	return hasPrefix(k.encode(), prefix.encode())
}

// Resource — первая часть ключа, используется как метка метрик.
func (k Key) Resource() string {
	if len(k) == 0 {
		return "unknown"
	}
	if s, ok := k[0].(string); ok {
		return s
	}
	return "unknown"
}

func (k Key) encode() []string {
	out := make([]string, len(k))
	for i, part := range k {
		out[i] = encodePart(part)
	}
	return out
}

func encodePart(part any) string {
	b, err := json.Marshal(part)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(part))
	}
	return string(b)
}

func hasPrefix(parts, prefix []string) bool {
	if len(prefix) > len(parts) {
		return false
	}
	for i := range prefix {
		if parts[i] != prefix[i] {
			return false
		}
	}
	return true
}
