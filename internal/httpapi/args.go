package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"

	"llmbridge/pkg/types"
)

var errLoadArgs = errors.New("loadModel needs modelPath (string) and config (object)")

// decodeLoadArgs reads loadModel arguments field by field. modelPath and
// config must have the right shape; a config key with the wrong type is
// skipped and keeps its engine default, and a modelInfo that is not an
// object is ignored.
func decodeLoadArgs(raw json.RawMessage) (types.LoadModelArgs, error) {
	var args types.LoadModelArgs
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return args, errLoadArgs
	}
	if err := json.Unmarshal(fields["modelPath"], &args.ModelPath); err != nil || isNull(fields["modelPath"]) {
		return args, errLoadArgs
	}
	var cfgFields map[string]json.RawMessage
	if err := json.Unmarshal(fields["config"], &cfgFields); err != nil || cfgFields == nil {
		return args, errLoadArgs
	}
	cfg, skipped := decodeModelConfig(cfgFields)
	if len(skipped) > 0 {
		zlog.Warn().Strs("keys", skipped).Msg("loadModel: ignoring config keys with wrong type")
	}
	args.Config = &cfg
	if info, ok := fields["modelInfo"]; ok {
		var m map[string]any
		if json.Unmarshal(info, &m) == nil {
			args.ModelInfo = m
		}
	}
	return args, nil
}

// decodeModelConfig maps known keys onto types.ModelConfig and returns the
// sorted names of keys whose values had the wrong type. null counts as
// absent.
func decodeModelConfig(fields map[string]json.RawMessage) (types.ModelConfig, []string) {
	var cfg types.ModelConfig
	var skipped []string
	for k, v := range fields {
		if isNull(v) {
			continue
		}
		var ok bool
		switch k {
		case "temp":
			cfg.Temp, ok = floatArg(v)
		case "topK":
			cfg.TopK, ok = intArg(v)
		case "topP":
			cfg.TopP, ok = floatArg(v)
		case "repeatPenalty":
			cfg.RepeatPenalty, ok = floatArg(v)
		case "context":
			cfg.Context, ok = intArg(v)
		case "nBatch":
			cfg.NBatch, ok = intArg(v)
		case "numberOfThreads":
			cfg.NumberOfThreads, ok = intArg(v)
		case "useMetal":
			cfg.UseMetal, ok = boolArg(v)
		case "mlock":
			cfg.MLock, ok = boolArg(v)
		case "mmap":
			cfg.MMap, ok = boolArg(v)
		default:
			continue
		}
		if !ok {
			skipped = append(skipped, k)
		}
	}
	sort.Strings(skipped)
	return cfg, skipped
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func floatArg(raw json.RawMessage) (*float64, bool) {
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return nil, false
	}
	return &f, true
}

// intArg accepts integral JSON numbers only, 40 and 40.0 alike.
func intArg(raw json.RawMessage) (*int, bool) {
	f, ok := floatArg(raw)
	if !ok || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil, false
	}
	n := int(*f)
	return &n, true
}

func boolArg(raw json.RawMessage) (*bool, bool) {
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return nil, false
	}
	return &b, true
}
