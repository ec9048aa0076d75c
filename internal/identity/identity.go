// Package identity resolves the Telegram user behind a Mini App request.
package identity

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// PageURLParam carries the init data when the page was opened by a link.
const PageURLParam = "tgWebAppData"

// Host exposes what the Telegram client handed to the Mini App.
type Host interface {
	// InitDataUnsafe returns the structured init data, nil when the client
	// did not provide it.
	InitDataUnsafe() *initdata.InitData
	InitDataRaw() string
	PageURL() string
}

// Profile is the resolved identity. Absent fields are nil.
type Profile struct {
	UserID   *int64  `json:"user_id"`
	ChatID   *int64  `json:"chat_id"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	PhotoURL *string `json:"photo_url"`
}

// Identity is the account id used for every backend call: the user id
// when known, else the chat id.
func (p Profile) Identity() (int64, bool) {
	if p.UserID != nil {
		return *p.UserID, true
	}
	if p.ChatID != nil {
		return *p.ChatID, true
	}
	return 0, false
}

type Reader struct {
	logger zerolog.Logger
}

func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read tries the structured init data, then the raw init data, then the
// tgWebAppData parameter of the page URL. The first source carrying a user
// or a chat wins.
func (r *Reader) Read(host Host) Profile {
	if host == nil {
		return Profile{}
	}

	sources := []func() *initdata.InitData{
		host.InitDataUnsafe,
		func() *initdata.InitData { return r.parseRaw("init_data", host.InitDataRaw()) },
		func() *initdata.InitData { return r.parseRaw("page_url", PageInitData(host.PageURL())) },
	}
	for _, src := range sources {
		if data := src(); hasSubject(data) {
			return profileFrom(data)
		}
	}
	return Profile{}
}

// Read resolves a profile without logging parse failures.
func Read(host Host) Profile {
	return NewReader(zerolog.Nop()).Read(host)
}

func (r *Reader) parseRaw(source, raw string) *initdata.InitData {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	data, err := initdata.Parse(raw)
	if err != nil {
		r.logger.Debug().Err(err).Str("source", source).Msg("ignoring unparsable init data")
		return nil
	}
	return &data
}

// PageInitData extracts the raw init data from the tgWebAppData query
// parameter of the page URL.
func PageInitData(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get(PageURLParam)
}

func hasSubject(data *initdata.InitData) bool {
	return data != nil && (data.User.ID != 0 || data.Chat.ID != 0)
}

func profileFrom(data *initdata.InitData) Profile {
	var p Profile
	user, chat := data.User, data.Chat

	if user.ID != 0 {
		id := user.ID
		p.UserID = &id
		p.ChatID = &id
	} else if chat.ID != 0 {
		id := chat.ID
		p.ChatID = &id
	}

	if user.Username != "" {
		p.Username = strPtr(user.Username)
	}
	if user.PhotoURL != "" {
		p.PhotoURL = strPtr(user.PhotoURL)
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		p.FullName = strPtr(name)
	}
	return p
}

func strPtr(s string) *string {
	return &s
}
