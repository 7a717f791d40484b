package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-onthisday/internal/config"
)

// WriteVCards encodes one vCard 4.0 per person that has at least one exact date
// (BDAY, DEATHDATE, or the first exact marriage as ANNIVERSARY).
// It returns the number of cards written.
func WriteVCards(w io.Writer, ds *Dataset) (int, error) {
	if ds == nil {
		return 0, nil
	}

	enc := vcard.NewEncoder(w)
	count := 0
	for _, gen := range ds.Generations {
		if gen == nil {
			continue
		}
		for _, p := range gen.Persons {
			if p == nil {
				continue
			}
			card, ok := personCard(p)
			if !ok {
				continue
			}
			if err := enc.Encode(card); err != nil {
				return count, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
			}
			count++
		}
	}

	slog.Debug(config.MsgVCardsWritten,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyCount, count,
	)
	return count, nil
}

// personCard maps a person to a vCard; ok is false when no date is exact.
func personCard(p *Person) (vcard.Card, bool) {
	card := make(vcard.Card)
	dated := false

	if b, ok := ParseExactDate(p.birthDate()); ok {
		card.SetValue(vcard.FieldBirthday, vcardDate(b))
		dated = true
	}
	if d, ok := ParseExactDate(p.deathDate()); ok {
		card.SetValue(config.VCardDeathDate, vcardDate(d))
		dated = true
	}
	for _, m := range p.Marriages {
		if m == nil {
			continue
		}
		if md, ok := ParseExactDate(string(m.MarriageDate)); ok {
			card.SetValue(vcard.FieldAnniversary, vcardDate(md))
			dated = true
			break
		}
	}
	if !dated {
		return nil, false
	}

	name := p.DisplayName()
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, name)
	card.SetName(&vcard.Name{
		GivenName:      string(p.FirstName),
		AdditionalName: string(p.MiddleName),
		FamilyName:     string(p.LastName),
	})

	uid := string(p.ID)
	if uid == "" {
		uid = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDSalt+name)).String()
	}
	card.SetValue(vcard.FieldUID, uid)

	return card, true
}

func vcardDate(d ExactDate) string {
	return fmt.Sprintf(config.VCardDateFmt, d.Year, int(d.Month), d.Day)
}
