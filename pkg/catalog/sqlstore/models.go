package sqlstore

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// insertedLayout is fixed width so that inserted_at sorts lexically.
const insertedLayout = "2006-01-02T15:04:05.000000000Z07:00"

// JSONField is a generic type for handling JSON marshaling/unmarshaling in database
type JSONField[T any] struct {
	Data T
}

// Scan implements the sql.Scanner interface for reading from database
func (j *JSONField[T]) Scan(value any) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.Errorf("cannot scan %T into JSONField", value)
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, &j.Data)
}

// Value implements the driver.Valuer interface for writing to database
func (j JSONField[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// dbSkill represents the skills table structure
type dbSkill struct {
	Slug            string                      `db:"slug"`
	Name            string                      `db:"name"`
	Org             string                      `db:"org"`
	Repo            string                      `db:"repo"`
	Description     string                      `db:"description"`
	LongDescription *string                     `db:"long_description"` // NULL in database
	Commands        JSONField[catalog.Commands] `db:"commands"`
	Tags            JSONField[[]string]         `db:"tags"`
	Agents          JSONField[[]catalog.Agent]  `db:"agents"`
	Installs        int64                       `db:"installs"`
	Stars           int64                       `db:"stars"`
	Velocity        *float64                    `db:"velocity"`
	LastUpdated     string                      `db:"last_updated"`
	AddedAt         string                      `db:"added_at"`
	RepoURL         string                      `db:"repo_url"`
	DocsURL         *string                     `db:"docs_url"` // NULL in database
	Featured        bool                        `db:"featured"`
	Verified        bool                        `db:"verified"`
	InsertedAt      string                      `db:"inserted_at"`
}

// dbEvent represents the events table structure
type dbEvent struct {
	ID         string  `db:"id"`
	SkillSlug  string  `db:"skill_slug"`
	Action     string  `db:"action"`
	Agent      *string `db:"agent"`
	OccurredAt string  `db:"occurred_at"`
}

// toSkill converts a database row to the domain model
func (d *dbSkill) toSkill() (catalog.Skill, error) {
	lastUpdated, err := catalog.ParseTime(d.LastUpdated)
	if err != nil {
		return catalog.Skill{}, errors.Wrapf(err, "invalid last_updated for %s", d.Slug)
	}
	addedAt, err := catalog.ParseTime(d.AddedAt)
	if err != nil {
		return catalog.Skill{}, errors.Wrapf(err, "invalid added_at for %s", d.Slug)
	}

	skill := catalog.Skill{
		Slug:        d.Slug,
		Name:        d.Name,
		Org:         d.Org,
		Repo:        d.Repo,
		Description: d.Description,
		Commands:    d.Commands.Data,
		Tags:        d.Tags.Data,
		Agents:      d.Agents.Data,
		Installs:    d.Installs,
		Stars:       d.Stars,
		Velocity:    d.Velocity,
		LastUpdated: lastUpdated,
		AddedAt:     addedAt,
		RepoURL:     d.RepoURL,
		Featured:    d.Featured,
		Verified:    d.Verified,
	}
	if skill.Tags == nil {
		skill.Tags = []string{}
	}
	if skill.Agents == nil {
		skill.Agents = []catalog.Agent{}
	}
	if d.LongDescription != nil {
		skill.LongDescription = *d.LongDescription
	}
	if d.DocsURL != nil {
		skill.DocsURL = *d.DocsURL
	}
	return skill, nil
}

// fromSkill converts the domain model to a database row
func fromSkill(s catalog.Skill, insertedAt time.Time) *dbSkill {
	row := &dbSkill{
		Slug:        s.Slug,
		Name:        s.Name,
		Org:         s.Org,
		Repo:        s.Repo,
		Description: s.Description,
		Commands:    JSONField[catalog.Commands]{Data: s.Commands},
		Tags:        JSONField[[]string]{Data: s.Tags},
		Agents:      JSONField[[]catalog.Agent]{Data: s.Agents},
		Installs:    s.Installs,
		Stars:       s.Stars,
		Velocity:    s.Velocity,
		LastUpdated: catalog.FormatTime(s.LastUpdated),
		AddedAt:     catalog.FormatTime(s.AddedAt),
		RepoURL:     s.RepoURL,
		Featured:    s.Featured,
		Verified:    s.Verified,
		InsertedAt:  insertedAt.UTC().Format(insertedLayout),
	}
	if row.Tags.Data == nil {
		row.Tags.Data = []string{}
	}
	if row.Agents.Data == nil {
		row.Agents.Data = []catalog.Agent{}
	}
	if s.LongDescription != "" {
		row.LongDescription = &s.LongDescription
	}
	if s.DocsURL != "" {
		row.DocsURL = &s.DocsURL
	}
	return row
}

func fromEvent(e catalog.Event) *dbEvent {
	row := &dbEvent{
		ID:         e.ID,
		SkillSlug:  e.SkillSlug,
		Action:     string(e.Action),
		OccurredAt: catalog.FormatTime(e.Timestamp),
	}
	if e.Agent != "" {
		agent := string(e.Agent)
		row.Agent = &agent
	}
	return row
}
