package password

import (
	"crypto/rand"
	"math/big"
)

const (
	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

	// TemporaryRandomLen es la cantidad de caracteres aleatorios de un password temporal.
	TemporaryRandomLen = 12
	// TemporarySuffix garantiza mayúscula, dígito y símbolo.
	TemporarySuffix = "A1!"
)

// GenerateTemporary genera 12 caracteres base36 de crypto/rand seguidos de "A1!".
// El resultado se devuelve una sola vez al cuidador y sólo se persiste hasheado.
func GenerateTemporary() (string, error) {
	max := big.NewInt(int64(len(base36)))
	b := make([]byte, 0, TemporaryRandomLen+len(TemporarySuffix))
	for i := 0; i < TemporaryRandomLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b = append(b, base36[n.Int64()])
	}
	return string(append(b, TemporarySuffix...)), nil
}
