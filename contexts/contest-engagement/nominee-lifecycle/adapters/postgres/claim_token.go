package postgresadapter

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// claimTokenAlphabet drops look-alike characters so tokens survive being read
// out of an email.
const claimTokenAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const claimTokenLength = 24

type NanoidClaimTokenGenerator struct{}

func (NanoidClaimTokenGenerator) NewClaimToken(_ context.Context) (string, error) {
	return gonanoid.Generate(claimTokenAlphabet, claimTokenLength)
}
