package identity

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/domain"
)

// Request carries the identity material a transport extracted from an inbound
// request. Fields are tried in declaration order; empty fields are skipped.
type Request struct {
	UserID       string // explicit user_id query parameter or request field
	HeaderUserID string // X-User-ID header value
	LaunchToken  string // signed launch-link token (token query parameter)
	InitData     string // Telegram Web App init data (X-Telegram-Init-Data header)
}

// Resolver derives the calling owner's identity from request material.
type Resolver struct {
	signer   *TokenSigner
	botToken string
	logger   *zap.Logger
}

func NewResolver(signer *TokenSigner, botToken string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		signer:   signer,
		botToken: botToken,
		logger:   logger,
	}
}

// Resolve returns the first identity the request material yields, or
// domain.ErrUnidentified when nothing matches. Malformed signed payloads are
// logged and skipped, never fatal.
func (r *Resolver) Resolve(req Request) (domain.Identity, error) {
	if req.UserID != "" {
		if id, err := strconv.ParseInt(req.UserID, 10, 64); err == nil && id != 0 {
			return domain.Identity{ID: id}, nil
		}
		r.logger.Debug("ignoring malformed user_id parameter", zap.String("value", req.UserID))
	}

	if req.HeaderUserID != "" {
		if id, err := strconv.ParseInt(req.HeaderUserID, 10, 64); err == nil && id != 0 {
			return domain.Identity{ID: id}, nil
		}
		r.logger.Debug("ignoring malformed identity header", zap.String("value", req.HeaderUserID))
	}

	if req.LaunchToken != "" && r.signer != nil {
		owner, err := r.signer.Verify(req.LaunchToken)
		if err == nil {
			return owner, nil
		}
		r.logger.Warn("rejecting launch token", zap.Error(err))
	}

	if req.InitData != "" && r.botToken != "" {
		owner, err := VerifyInitData(req.InitData, r.botToken)
		if err == nil {
			return owner, nil
		}
		r.logger.Warn("rejecting telegram init data", zap.Error(err))
	}

	return domain.Identity{}, domain.ErrUnidentified
}
