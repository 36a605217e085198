// Package codec seals vault payloads for storage on disk.
//
// The pipeline is AES-256-CBC with PKCS#7 padding followed by standard
// base64. Key and IV are fixed constants, so the same plaintext always
// produces the same text. The codec keeps existing vault files readable;
// it does not protect them from anyone who has the rssh binary. Access
// control is the gatekeeper passphrase stored inside the payload.
//
//	c := codec.Default()
//	text, _ := c.Seal(payload)
//	payload, err := c.Open(text) // ErrDecode or ErrCrypto on bad input
package codec
