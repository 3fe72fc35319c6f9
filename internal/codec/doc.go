// Package codec кодирует сообщения брокера в JSON и обратно.
//
// JSON не умеет хранить целые произвольной точности и временные метки,
// поэтому обе стороны применяют текстовые соглашения:
//
//   - *big.Int  ↔ "0x<HEX>n" (цифры в верхнем регистре, для отрицательных "-0x<HEX>n")
//   - time.Time ↔ "YYYY-MM-DDTHH:MM:SS.sssZ" (UTC, миллисекунды)
//
// Целые JSON-литералы декодируются в int64, если помещаются,
// иначе в *big.Int — без округления через float64.
// Соглашения применяются рекурсивно во вложенных объектах и массивах.
package codec
