package format

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the EDN subset our payloads need: maps with keyword keys,
// vectors, strings, numbers, booleans and nil. Values go through JSON first
// so struct tags decide field names.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	e := ednWriter{w: bw, pretty: pretty}
	e.value(tree, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

type ednWriter struct {
	w      *bufio.Writer
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.w.WriteString("nil")
	case bool:
		e.w.WriteString(strconv.FormatBool(t))
	case string:
		e.w.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.w.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.w.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.w.WriteString(":" + keyword(keys[i]) + " ")
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.w.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// seq writes n elements between open and close, one per line when pretty.
func (e ednWriter) seq(open, close byte, n, depth int, elem func(i int)) {
	e.w.WriteByte(open)
	if n == 0 {
		e.w.WriteByte(close)
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.w.WriteByte('\n')
			e.w.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.w.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty {
		e.w.WriteByte('\n')
		e.w.WriteString(strings.Repeat("  ", depth))
	}
	e.w.WriteByte(close)
}

func keyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
