package templates

import (
	"context"
	"strings"
	"time"

	"github.com/fretvault/api/config"
)

const timeLayout = "02 January 2006, 15:04"

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option { return func(d *EmailData) { d.IP = ip } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format(timeLayout) + " UTC"
	}
}

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithWorkspace(name, url, inviter, role string) Option {
	return func(d *EmailData) {
		d.WorkspaceName = name
		d.WorkspaceURL = url
		d.InviterName = inviter
		d.Role = role
	}
}

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *EmailData) { setLocation(d, loc) }
}

func WithGeo(g Geo) Option {
	return func(d *EmailData) {
		setLocation(d, FormatGeo(g))
		Localize(d, g.Timezone)
	}
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			WithGeo(g)(d)
		}
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format(timeLayout) + " UTC"
	}
}

// Localize rewrites the human readable times in d into the IANA zone tz.
// Unknown or empty zones leave d untouched.
func Localize(d *EmailData, tz string) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return
	}
	if !d.TimeAt.IsZero() {
		d.Time = d.TimeAt.In(loc).Format(timeLayout) + " " + tz
	}
	if !d.ExpiresAt.IsZero() {
		d.ExpiresAtText = d.ExpiresAt.In(loc).Format(timeLayout) + " " + tz
	}
}

// NewBaseEmailData fills common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:       name,
		Email:      email,
		AppName:    cfg.AppName,
		AppURL:     cfg.AppURL,
		SupportURL: cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, name, email, opts...))
}

func NewResetPasswordData(cfg *config.Config, name, email, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, name, email, opts...))
}

func NewWorkspaceInviteData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, name, email, opts...))
}
