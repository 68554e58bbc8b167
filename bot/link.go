package bot

import (
	"fmt"

	"github.com/Poco-dev/todo-bot/domain"
	identityUC "github.com/Poco-dev/todo-bot/usecase/identity"
)

// LinkBuilder produces the launch links handed to chat users. Links carry a
// signed token so the web client can authenticate without retyping anything.
type LinkBuilder struct {
	baseURL string
	signer  *identityUC.TokenSigner
}

func NewLinkBuilder(baseURL string, signer *identityUC.TokenSigner) *LinkBuilder {
	return &LinkBuilder{
		baseURL: baseURL,
		signer:  signer,
	}
}

// Build returns the web-client URL for the owner. When minting fails the link
// falls back to the plain user_id parameter, which the resolver also accepts.
func (lb *LinkBuilder) Build(owner domain.Identity) string {
	if lb.signer != nil {
		if token, err := lb.signer.Mint(owner); err == nil {
			return fmt.Sprintf("%s?token=%s", lb.baseURL, token)
		}
	}
	return fmt.Sprintf("%s?user_id=%d", lb.baseURL, owner.ID)
}
