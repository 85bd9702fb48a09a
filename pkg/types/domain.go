package types

// Model represents a loadable model file in the models directory.
type Model struct {
	// Path relative to the models directory; pass it as modelPath to loadModel.
	// example: tinyllama/TinyLlama.Q4_K_M.gguf
	ID string `json:"id" example:"tinyllama/TinyLlama.Q4_K_M.gguf"`
	// Human-friendly name (file name without extension).
	// example: TinyLlama.Q4_K_M
	Name string `json:"name" example:"TinyLlama.Q4_K_M"`
	// Size of the model file in bytes.
	// example: 668788096
	SizeBytes int64 `json:"size_bytes" example:"668788096"`
}
