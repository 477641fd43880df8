package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-keepintouch/internal/config"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

// ImportConfig contains all parameters required to run a contact import.
type ImportConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// ImportStats reports the outcome of a bulk import. A partially failed run
// is not an error: remaining cards are processed and the counts tell the
// user what happened.
type ImportStats struct {
	Processed int
	Imported  int
	Linked    int
	Skipped   int
	Failed    int
}

// Importer reads vCard streams and creates people and birthday events in
// the record store.
type Importer struct {
	Clock   Clock
	Store   *store.Store
	Fetcher VCardFetcher
}

// Run executes the import pipeline: acquire the vCard stream, decode cards
// one by one, deduplicate against existing people, and create records.
// Malformed cards are skipped so one bad entry never aborts the run.
func (im *Importer) Run(ctx context.Context, cfg ImportConfig) (ImportStats, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgImportStarted)

	var stats ImportStats

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		return stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close. Errors in Close() for read-only streams are rarely actionable here.
	defer func() { _ = reader.Close() }()

	decoder := vcard.NewDecoder(reader)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log and continue to the next card to maximize data recovery.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			stats.Failed++
			continue
		}

		stats.Processed++
		im.importCard(card, &stats)
	}

	log.Info(config.MsgImportDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyImported, stats.Imported),
			slog.Int(config.LogKeySkipped, stats.Skipped),
			slog.Int(config.LogKeyFailed, stats.Failed),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return stats, nil
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

// importCard converts one decoded card into store records.
func (im *Importer) importCard(card vcard.Card, stats *ImportStats) {
	// Name Strategy: FN (Formatted) > N (Structured) > Fallback
	name := config.FallbackName
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		name = fn.Value
	} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		name = n.Value
	}

	var contactID string
	if uid := card.Get(config.VCardUID); uid != nil {
		contactID = uid.Value
	}

	// Duplicate detection: same external contact id first, then same name.
	// Best effort only; names are not unique.
	if _, ok := im.Store.FindByContactID(contactID); ok {
		slog.Debug(config.MsgImportSkipDup,
			config.LogKeyComponent, config.CompImporter,
			config.LogKeyName, name)
		stats.Skipped++
		return
	}
	if existing, ok := im.Store.FindByName(name); ok {
		// Link the external id to the existing person so future imports
		// recognize them, but do not create a second record.
		if existing.ContactID == "" && contactID != "" {
			if err := im.Store.UpdatePerson(existing.ID, store.PersonUpdate{ContactID: &contactID}); err == nil {
				slog.Debug(config.MsgImportLinked,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyPersonID, existing.ID)
				stats.Linked++
			}
		}
		stats.Skipped++
		return
	}

	p := store.Person{
		Name:      name,
		ContactID: contactID,
	}
	if org := card.Get(config.VCardORG); org != nil {
		p.Company = org.Value
	}
	if title := card.Get(config.VCardTITLE); title != nil {
		p.Role = title.Value
	}

	personID, err := im.Store.CreatePerson(p)
	if err != nil {
		slog.Warn(config.MsgSkippedCard,
			config.LogKeyComponent, config.CompImporter,
			config.LogKeyName, name,
			config.LogKeyError, err)
		stats.Failed++
		return
	}

	// A card without a parseable birthday still imports the person.
	if bday := card.Get(config.VCardBDAY); bday != nil && bday.Value != "" {
		if birthDate, yearKnown, err := parseDate(bday.Value); err == nil {
			year := 0
			if yearKnown {
				year = birthDate.Year()
			}
			_, err := im.Store.CreateEvent(store.BirthdayEvent{
				PersonID: personID,
				Month:    int(birthDate.Month()),
				Day:      birthDate.Day(),
				Year:     year,
			})
			if err != nil {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyValue, bday.Value,
					config.LogKeyError, err)
			}
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyValue, bday.Value)
		}
	}

	stats.Imported++
}

// parseDate handles the vCard date formats encountered in the wild.
// The second return value reports whether the year is known; truncated
// formats like --02-29 use a leap year placeholder so the day survives.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
