package identity

import (
	"crypto/rand"
	"math/big"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*"
	allChars    = lowerChars + upperChars + digitChars + symbolChars
)

// GeneratePassword returns a random password of the given length containing
// at least one character from each of the four classes. The mandatory
// characters are shuffled into random positions. Lengths below 4 are
// clamped to 4 since the guarantee cannot hold otherwise.
func GeneratePassword(length int) string {
	if length < 4 {
		length = 4
	}

	password := make([]byte, 0, length)
	password = append(password,
		randomByte(lowerChars),
		randomByte(upperChars),
		randomByte(digitChars),
		randomByte(symbolChars),
	)
	for len(password) < length {
		password = append(password, randomByte(allChars))
	}

	// Fisher-Yates so the class-guaranteeing characters are not
	// predictably placed at the front.
	for i := len(password) - 1; i > 0; i-- {
		j := randomInt(i + 1)
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

func randomByte(charset string) byte {
	return charset[randomInt(len(charset))]
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// a guessable password must not be returned in that case.
		panic(err)
	}
	return int(v.Int64())
}
