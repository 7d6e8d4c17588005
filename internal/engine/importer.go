package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// ImportConfig describes where to read vCards from.
type ImportConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// ImportResult is the outcome of one import run.
type ImportResult struct {
	Friends []Friend
	Skipped int // Cards without a name-able birthday or with an undecodable body
}

// Importer turns an address book into friends.
type Importer struct {
	Fetcher VCardFetcher // Only needed for config.SourceModeWeb.
}

// Import reads every card of the configured source.
// Cards without a full BDAY (year included) are skipped.
func (im *Importer) Import(ctx context.Context, cfg ImportConfig) (ImportResult, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return ImportResult{}, ctx.Err()
		}
		return ImportResult{}, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
	}
	defer func() { _ = reader.Close() }()

	res, err := DecodeFriends(ctx, reader)
	if err != nil {
		return ImportResult{}, err
	}

	log.Info(config.MsgImportDone,
		config.LogKeyImported, len(res.Friends),
		config.LogKeySkipped, res.Skipped,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg ImportConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// DecodeFriends reads a vCard stream. Cards without a usable birthday are skipped
// and counted. Decoding stops at the first malformed card: friends read before it
// are kept and the rest of the stream counts as one skip.
func DecodeFriends(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	decoder := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			res.Skipped++
			// The decoder cannot resync after a syntax error.
			break
		}

		f, err := friendFromCard(card)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			res.Skipped++
			continue
		}
		res.Friends = append(res.Friends, f)
	}
	return res, nil
}

// friendFromCard extracts name (FN > N) and a full birthday.
func friendFromCard(card vcard.Card) (Friend, error) {
	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return Friend{}, errors.New(config.ErrDateParse)
	}
	birthDate, err := parseVCardDate(bday.Value)
	if err != nil {
		return Friend{}, err
	}

	var name string
	if fn := card.Get(config.VCardFN); fn != nil {
		name = strings.TrimSpace(fn.Value)
	}
	if name == "" {
		if n := card.Name(); n != nil {
			name = strings.TrimSpace(strings.Join(nonEmpty(n.GivenName, n.AdditionalName, n.FamilyName), " "))
		}
	}
	if name == "" {
		return Friend{}, ErrMissingName
	}

	return Friend{Name: name, Birthday: FormatBirthday(birthDate)}, nil
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseVCardDate handles the vCard date forms that carry a year.
func parseVCardDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}

	// --MM-DD cannot become a dd.mm.yyyy birthday without inventing a year.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return time.Time{}, fmt.Errorf("%s: %q", config.ErrDateNoYear, value)
		}
	}

	return time.Time{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
