package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 20
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// ShortID returns the first n characters of id followed by an ellipsis, or
// id unchanged when it is already short enough.
func ShortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n] + "..."
}
