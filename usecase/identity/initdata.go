package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Poco-dev/todo-bot/domain"
)

// webAppSecretKey is the fixed HMAC key Telegram uses to derive the
// verification secret from a bot token.
const webAppSecretKey = "WebAppData"

type initDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// VerifyInitData validates a Telegram Web App init-data payload against the
// bot token and extracts the embedded user identity. The check string is every
// key=value pair except hash, sorted, joined with newlines, authenticated with
// HMAC-SHA256 keyed by HMAC-SHA256("WebAppData", botToken).
func VerifyInitData(initData, botToken string) (domain.Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parse init data: %w", err)
	}

	expected := values.Get("hash")
	if expected == "" {
		return domain.Identity{}, fmt.Errorf("init data has no hash")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte(webAppSecretKey))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(expected)) {
		return domain.Identity{}, fmt.Errorf("init data signature mismatch")
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return domain.Identity{}, fmt.Errorf("parse init data user: %w", err)
	}
	if user.ID == 0 {
		return domain.Identity{}, fmt.Errorf("init data user has no id")
	}

	username := user.Username
	if username == "" {
		username = user.FirstName
	}
	return domain.Identity{ID: user.ID, Username: username}, nil
}
