package ports

// TokenSealer protects widget tokens before they are stored.
// This lets us swap AES for something else without touching the recorder.
type TokenSealer interface {
	// Seal returns an opaque, printable form of token.
	Seal(token string) (sealed string, err error)

	// Open reverses Seal.
	Open(sealed string) (token string, err error)
}
