package web

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/web/templates"
)

// Session value keys. The password is stored because every file of a
// batch opens its own connection; the cookie is encrypted.
const (
	keyHost     = "db_host"
	keyPort     = "db_port"
	keyUser     = "db_user"
	keyPassword = "db_password"
	keyDatabase = "db_name"

	// flashResultKey holds resultStore ids rather than message text.
	flashResultKey = "batch_result"
)

// errNotConnected means the session holds no database credentials.
var errNotConnected = errors.New("not connected to a database")

// SessionOptions configures the cookie store.
type SessionOptions struct {
	Name   string
	Secret string // random per process when empty
	MaxAge time.Duration
	Secure bool
}

// sessionStore keeps connection credentials and flashes in an encrypted
// cookie. Only batch summaries, which can outgrow a cookie, are kept
// server-side.
type sessionStore struct {
	store   *sessions.CookieStore
	name    string
	results *resultStore
}

func newSessionStore(opts SessionOptions) *sessionStore {
	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	blockKey := sha256.Sum256(secret)

	store := sessions.NewCookieStore(secret, blockKey[:])
	maxAge := int(opts.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = 8 * 60 * 60
	}
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = opts.Secure
	store.Options.SameSite = http.SameSiteLaxMode

	name := opts.Name
	if name == "" {
		name = "sqlupload"
	}
	return &sessionStore{store: store, name: name, results: newResultStore(resultTTL)}
}

// get returns the request's session. A cookie that no longer decodes (for
// example after a secret rotation) yields a fresh session.
func (s *sessionStore) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		sess, _ = s.store.New(r, s.name)
	}
	return sess
}

// connection returns the credentials saved by setConnection.
func (s *sessionStore) connection(r *http.Request) (core.ConnectionConfig, error) {
	sess := s.get(r)
	host, ok := sess.Values[keyHost].(string)
	if !ok {
		return core.ConnectionConfig{}, errNotConnected
	}
	port, _ := sess.Values[keyPort].(int)
	user, _ := sess.Values[keyUser].(string)
	password, _ := sess.Values[keyPassword].(string)
	database, _ := sess.Values[keyDatabase].(string)

	return core.ConnectionConfig{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: database,
	}, nil
}

func (s *sessionStore) setConnection(w http.ResponseWriter, r *http.Request, cfg core.ConnectionConfig) error {
	sess := s.get(r)
	sess.Values[keyHost] = cfg.Host
	sess.Values[keyPort] = cfg.Port
	sess.Values[keyUser] = cfg.User
	sess.Values[keyPassword] = cfg.Password
	sess.Values[keyDatabase] = cfg.Database
	return sess.Save(r, w)
}

// clearConnection forgets the credentials but keeps pending flashes.
func (s *sessionStore) clearConnection(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	for _, k := range []string{keyHost, keyPort, keyUser, keyPassword, keyDatabase} {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// flash queues a message for the next rendered page. The category is the
// flash key, the same way Flashes groups them.
func (s *sessionStore) flash(w http.ResponseWriter, r *http.Request, category, message string) error {
	sess := s.get(r)
	sess.AddFlash(message, category)
	return sess.Save(r, w)
}

// flashResult queues a batch summary. The text stays in memory and the
// cookie only carries its id.
func (s *sessionStore) flashResult(w http.ResponseWriter, r *http.Request, text string) error {
	sess := s.get(r)
	sess.AddFlash(s.results.put(text), flashResultKey)
	return sess.Save(r, w)
}

var flashCategories = []string{
	templates.FlashSuccess,
	templates.FlashDanger,
	templates.FlashWarning,
	templates.FlashInfo,
}

// popFlashes removes and returns all pending flashes.
func (s *sessionStore) popFlashes(w http.ResponseWriter, r *http.Request) []templates.Flash {
	sess := s.get(r)

	var out []templates.Flash
	for _, category := range flashCategories {
		for _, v := range sess.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, templates.Flash{Category: category, Message: msg})
			}
		}
	}
	var pending bool
	for _, v := range sess.Flashes(flashResultKey) {
		pending = true
		id, _ := v.(string)
		if text, ok := s.results.take(id); ok {
			out = append(out, templates.Flash{Category: templates.FlashInfo, Message: text})
		}
	}
	if len(out) > 0 || pending {
		_ = sess.Save(r, w)
	}
	return out
}
