// Package mhf bridges the launcher to the external game runtime. It
// assembles the flat launch configuration the runtime expects and hands
// it off by spawning the loader process.
package mhf

import (
	"github.com/mhfrontier/launcher/pkg/model"
)

// Notice is one notification entry in the launch configuration. Flags is
// reserved by the runtime and always zero here.
type Notice struct {
	Data  string `json:"data"`
	Flags uint32 `json:"flags"`
}

// Config is the write-once launch snapshot handed to the game runtime.
// The mez fields are only present while the server reports an event.
type Config struct {
	CharID   uint32   `json:"charId"`
	CharNew  bool     `json:"charNew"`
	CharName string   `json:"charName"`
	CharHR   uint32   `json:"charHr"`
	CharGR   uint32   `json:"charGr"`
	CharIDs  []uint32 `json:"charIds"`

	UserName     string `json:"userName"`
	UserPassword string `json:"userPassword"`
	UserRights   uint32 `json:"userRights"`
	UserToken    string `json:"userToken"`

	EntranceCount uint32   `json:"entranceCount"`
	CurrentTS     uint32   `json:"currentTs"`
	ExpiryTS      uint32   `json:"expiryTs"`
	Notices       []Notice `json:"notices"`

	MezEventID      *uint32 `json:"mezEventId,omitempty"`
	MezStart        *uint32 `json:"mezStart,omitempty"`
	MezEnd          *uint32 `json:"mezEnd,omitempty"`
	MezSoloTickets  *uint32 `json:"mezSoloTickets,omitempty"`
	MezGroupTickets *uint32 `json:"mezGroupTickets,omitempty"`
	MezStalls       []Stall `json:"mezStalls,omitempty"`

	Folder string `json:"mhfFolder"`
}

// BuildConfig assembles the launch snapshot for one character. The
// snapshot copies everything it needs from the session, so later session
// changes do not leak into a running game. An unknown stall code in the
// session's event aborts the build.
func BuildConfig(sess *model.Session, username, password string, ch model.Character, folder string) (Config, error) {
	cfg := Config{
		CharID:        ch.ID,
		CharNew:       ch.IsNew,
		CharName:      ch.Name,
		CharHR:        ch.HR,
		CharGR:        ch.GR,
		CharIDs:       sess.CharacterIDs(),
		UserName:      username,
		UserPassword:  password,
		UserRights:    uint32(sess.User.Rights),
		UserToken:     sess.User.Token,
		EntranceCount: sess.EntranceCount,
		CurrentTS:     sess.CurrentTS,
		ExpiryTS:      sess.ExpiryTS,
		Notices:       make([]Notice, 0, len(sess.Notifications)),
		Folder:        folder,
	}

	for _, n := range sess.Notifications {
		cfg.Notices = append(cfg.Notices, Notice{Data: n})
	}

	if ev := sess.MezFes; ev != nil {
		stalls, err := StallsFromCodes(ev.Stalls)
		if err != nil {
			return Config{}, err
		}
		cfg.MezEventID = ptr(ev.ID)
		cfg.MezStart = ptr(ev.Start)
		cfg.MezEnd = ptr(ev.End)
		cfg.MezSoloTickets = ptr(ev.SoloTickets)
		cfg.MezGroupTickets = ptr(ev.GroupTickets)
		cfg.MezStalls = stalls
	}

	return cfg, nil
}

func ptr(v uint32) *uint32 { return &v }
