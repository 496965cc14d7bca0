package gateway

import (
	"encoding/json"
	"net/url"
	"strings"
)

// envelope is the part of every response body the gateway looks at.
type envelope struct {
	Success *bool           `json:"success"`
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(raw []byte) envelope {
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return env
}

// message picks the most specific human-readable failure text in the body.
// detail may be a string or a list of {"msg": ...} validation entries.
func (e envelope) message() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(e.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func escapeAll(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			out[i] = url.PathEscape(s)
			continue
		}
		out[i] = a
	}
	return out
}
