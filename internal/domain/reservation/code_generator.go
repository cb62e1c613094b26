package reservation

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

var ErrInvalidCodePrefix = errors.New("confirmation code prefix must be two uppercase letters")

var prefixPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// CodeGenerator makes no uniqueness promise; callers check the store and retry.
type CodeGenerator interface {
	Generate() (ConfirmationCode, error)
}

type RandomCodeGenerator struct {
	prefix string
	source io.Reader
}

func NewRandomCodeGenerator(prefix string) (*RandomCodeGenerator, error) {
	return NewRandomCodeGeneratorFrom(prefix, rand.Reader)
}

func NewRandomCodeGeneratorFrom(prefix string, source io.Reader) (*RandomCodeGenerator, error) {
	if !prefixPattern.MatchString(prefix) {
		return nil, ErrInvalidCodePrefix
	}
	return &RandomCodeGenerator{prefix: prefix, source: source}, nil
}

func (g *RandomCodeGenerator) Generate() (ConfirmationCode, error) {
	var sb strings.Builder
	sb.Grow(len(g.prefix) + codeLength)
	sb.WriteString(g.prefix)

	upper := big.NewInt(int64(len(codeAlphabet)))
	for range codeLength {
		n, err := rand.Int(g.source, upper)
		if err != nil {
			return ConfirmationCode{}, fmt.Errorf("read random source: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}

	return ParseConfirmationCode(sb.String())
}
