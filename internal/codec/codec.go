package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/shaiso/Hive/internal/domain"
)

// TimestampLayout — формат временных меток на проводе.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	bigIntPattern    = regexp.MustCompile(`^(-?)0x(0|[1-9A-F][0-9A-F]*)n$`)
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
)

// wireMessage — сообщение в том виде, в каком оно лежит в очереди.
type wireMessage struct {
	Name *string        `json:"name"`
	Data map[string]any `json:"data"`
}

// Marshal кодирует сообщение в JSON с применением соглашений.
func Marshal(msg domain.Message) ([]byte, error) {
	data := msg.Data
	if data == nil {
		data = map[string]any{}
	}

	name := msg.Name
	body, err := json.Marshal(wireMessage{
		Name: &name,
		Data: EncodeValue(data).(map[string]any),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal message %q: %w", msg.Name, err)
	}
	return body, nil
}

// Unmarshal декодирует сообщение из JSON.
// Поля name (строка) и data (объект) обязательны.
func Unmarshal(body []byte) (domain.Message, error) {
	var raw wireMessage
	if err := decodeJSON(body, &raw); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)
	}
	if raw.Name == nil {
		return domain.Message{}, fmt.Errorf("%w: name is required", domain.ErrInvalidMessage)
	}
	if raw.Data == nil {
		return domain.Message{}, fmt.Errorf("%w: data must be an object", domain.ErrInvalidMessage)
	}

	return domain.Message{
		Name: *raw.Name,
		Data: DecodeValue(raw.Data).(map[string]any),
	}, nil
}

// UnmarshalData декодирует JSON-объект как data сообщения.
func UnmarshalData(body []byte) (map[string]any, error) {
	var data map[string]any
	if err := decodeJSON(body, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("decode data: expected a JSON object")
	}
	return DecodeValue(data).(map[string]any), nil
}

func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

// EncodeValue заменяет *big.Int и time.Time их текстовым представлением.
// Срезы, массивы и карты со строковыми ключами обходятся рекурсивно,
// в том числе типизированные. Остальные значения возвращаются как есть.
func EncodeValue(v any) any {
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return nil
		}
		return FormatBigInt(val)
	case big.Int:
		return FormatBigInt(&val)
	case time.Time:
		return FormatTimestamp(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return FormatTimestamp(*val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = EncodeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = EncodeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = EncodeValue(item)
		}
		return out
	default:
		return encodeContainer(v)
	}
}

// encodeContainer обходит типизированные срезы и карты через reflect.
// []byte остаётся как есть: encoding/json кодирует его в base64.
func encodeContainer(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return encodeElements(rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return encodeElements(rv)
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = EncodeValue(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

func encodeElements(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = EncodeValue(rv.Index(i).Interface())
	}
	return out
}

// DecodeValue восстанавливает *big.Int, time.Time и числа из JSON-значения,
// полученного декодером с UseNumber.
func DecodeValue(v any) any {
	switch val := v.(type) {
	case string:
		return decodeString(val)
	case json.Number:
		return decodeNumber(val)
	case map[string]any:
		for k, item := range val {
			val[k] = DecodeValue(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = DecodeValue(item)
		}
		return val
	default:
		return v
	}
}

// FormatBigInt возвращает "0x<HEX>n".
func FormatBigInt(n *big.Int) string {
	if n.Sign() < 0 {
		abs := new(big.Int).Abs(n)
		return "-0x" + strings.ToUpper(abs.Text(16)) + "n"
	}
	return "0x" + strings.ToUpper(n.Text(16)) + "n"
}

// FormatTimestamp возвращает метку в формате TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func decodeString(s string) any {
	if m := bigIntPattern.FindStringSubmatch(s); m != nil {
		n, ok := new(big.Int).SetString(m[2], 16)
		if !ok {
			return s
		}
		if m[1] == "-" {
			if n.Sign() == 0 {
				// "-0x0n" не получается обратно из FormatBigInt
				return s
			}
			n.Neg(n)
		}
		return n
	}

	if timestampPattern.MatchString(s) {
		t, err := time.Parse(TimestampLayout, s)
		if err != nil {
			// совпадает по форме, но не дата (например, месяц 13)
			return s
		}
		return t
	}

	return s
}

func decodeNumber(n json.Number) any {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		f, err := n.Float64()
		if err != nil {
			return s
		}
		return f
	}

	if i, err := n.Int64(); err == nil {
		return i
	}

	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return b
}
