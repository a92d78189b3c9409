package main

import (
	"encoding/json"
	"strings"

	"github.com/downfa11-org/boundlog/pkg/types"
)

// input is one stdin record. Lines that are not a JSON object with a msg are
// logged verbatim at info.
type input struct {
	Level  types.Level  `json:"level"`
	Msg    string       `json:"msg"`
	Fields types.Fields `json:"fields"`
}

func parseInput(line string) input {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var in input
		if err := json.Unmarshal([]byte(trimmed), &in); err == nil && in.Msg != "" {
			if in.Level == "" {
				in.Level = types.LevelInfo
			}
			return in
		}
	}
	return input{Level: types.LevelInfo, Msg: line}
}
