// Package sqldb holds the SQL shared by the SQLite and PostgreSQL providers.
// Statements are written with ? placeholders and rebound per driver.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/storage"
)

// timestampLayout is fixed width so created_at sorts correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Queries struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}

func (q *Queries) DB() *sqlx.DB {
	return q.db
}

func (q *Queries) GetSettings(ctx context.Context) (models.Settings, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := q.db.SelectContext(ctx, &rows, "SELECT key, value FROM settings"); err != nil {
		return models.Settings{}, err
	}
	if len(rows) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}

	data := make(map[string]string, len(rows))
	for _, r := range rows {
		data[r.Key] = r.Value
	}
	settings := models.MapToSettings(data)
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (q *Queries) SaveSettings(ctx context.Context, settings models.Settings) error {
	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (q *Queries) AddSchool(ctx context.Context, school models.School) error {
	_, err := q.db.NamedExecContext(ctx, `
		INSERT INTO schools (id, name, slug, city, state, next_deadline)
		VALUES (:id, :name, :slug, :city, :state, :next_deadline)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			city = excluded.city,
			state = excluded.state,
			next_deadline = excluded.next_deadline`, school)
	if err != nil {
		return fmt.Errorf("failed to save school %s: %w", school.ID, err)
	}
	return nil
}

const schoolColumns = "id, name, slug, city, state, next_deadline"

func (q *Queries) GetSchool(ctx context.Context, id string) (models.School, error) {
	var school models.School
	err := q.db.GetContext(ctx, &school, q.db.Rebind("SELECT "+schoolColumns+" FROM schools WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.School{}, fmt.Errorf("school %s: %w", id, storage.ErrNotFound)
	}
	return school, err
}

func (q *Queries) GetSchools(ctx context.Context) ([]models.School, error) {
	schools := []models.School{}
	if err := q.db.SelectContext(ctx, &schools, "SELECT "+schoolColumns+" FROM schools ORDER BY name, id"); err != nil {
		return nil, err
	}
	return schools, nil
}

type programmeRow struct {
	models.Programme
	RequirementsJSON string `db:"requirements"`
}

func (q *Queries) AddProgramme(ctx context.Context, programme models.Programme) error {
	reqs := programme.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	reqJSON, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("failed to serialize requirements: %w", err)
	}

	_, err = q.db.NamedExecContext(ctx, `
		INSERT INTO programmes (id, school_id, name, slug, level, open, next_deadline, requirements)
		VALUES (:id, :school_id, :name, :slug, :level, :open, :next_deadline, :requirements)
		ON CONFLICT (id) DO UPDATE SET
			school_id = excluded.school_id,
			name = excluded.name,
			slug = excluded.slug,
			level = excluded.level,
			open = excluded.open,
			next_deadline = excluded.next_deadline,
			requirements = excluded.requirements`,
		programmeRow{Programme: programme, RequirementsJSON: string(reqJSON)})
	if err != nil {
		return fmt.Errorf("failed to save programme %s: %w", programme.ID, err)
	}
	return nil
}

func (q *Queries) GetProgrammesBySchool(ctx context.Context, schoolID string) ([]models.Programme, error) {
	var rows []programmeRow
	err := q.db.SelectContext(ctx, &rows, q.db.Rebind(`
		SELECT id, school_id, name, slug, level, open, next_deadline, requirements
		FROM programmes WHERE school_id = ? ORDER BY name, id`), schoolID)
	if err != nil {
		return nil, err
	}

	programmes := make([]models.Programme, 0, len(rows))
	for _, r := range rows {
		p := r.Programme
		if err := json.Unmarshal([]byte(r.RequirementsJSON), &p.Requirements); err != nil {
			return nil, fmt.Errorf("programme %s has malformed requirements: %w", p.ID, err)
		}
		programmes = append(programmes, p)
	}
	return programmes, nil
}

type roommateRow struct {
	ID                   string        `db:"id"`
	UserID               string        `db:"user_id"`
	FullName             string        `db:"full_name"`
	Gender               string        `db:"gender"`
	Age                  sql.NullInt64 `db:"age"`
	University           string        `db:"university"`
	Faculty              string        `db:"faculty"`
	Department           string        `db:"department"`
	CourseOfStudy        string        `db:"course_of_study"`
	YearOfStudy          sql.NullInt64 `db:"year_of_study"`
	Religion             string        `db:"religion"`
	Bio                  string        `db:"bio"`
	BudgetMin            int64         `db:"budget_min"`
	BudgetMax            int64         `db:"budget_max"`
	PreferredLocation    string        `db:"preferred_location"`
	Interests            string        `db:"interests"`
	LifestylePreferences string        `db:"lifestyle_preferences"`
	Verified             bool          `db:"verified"`
	Active               bool          `db:"active"`
	CreatedAt            string        `db:"created_at"`
}

const roommateColumns = `id, user_id, full_name, gender, age, university, faculty, department,
	course_of_study, year_of_study, religion, bio, budget_min, budget_max, preferred_location,
	interests, lifestyle_preferences, verified, active, created_at`

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func toRow(p models.RoommateProfile) (roommateRow, error) {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	interestsJSON, err := json.Marshal(interests)
	if err != nil {
		return roommateRow{}, err
	}
	lifestyle := p.LifestylePreferences
	if lifestyle == nil {
		lifestyle = map[string]string{}
	}
	lifestyleJSON, err := json.Marshal(lifestyle)
	if err != nil {
		return roommateRow{}, err
	}

	return roommateRow{
		ID:                   p.ID,
		UserID:               p.UserID,
		FullName:             p.FullName,
		Gender:               p.Gender,
		Age:                  nullInt(p.Age),
		University:           p.University,
		Faculty:              p.Faculty,
		Department:           p.Department,
		CourseOfStudy:        p.CourseOfStudy,
		YearOfStudy:          nullInt(p.YearOfStudy),
		Religion:             p.Religion,
		Bio:                  p.Bio,
		BudgetMin:            p.BudgetMin,
		BudgetMax:            p.BudgetMax,
		PreferredLocation:    p.PreferredLocation,
		Interests:            string(interestsJSON),
		LifestylePreferences: string(lifestyleJSON),
		Verified:             p.Verified,
		Active:               p.Active,
		CreatedAt:            p.CreatedAt.UTC().Format(timestampLayout),
	}, nil
}

func (r roommateRow) profile() (models.RoommateProfile, error) {
	p := models.RoommateProfile{
		ID:                r.ID,
		UserID:            r.UserID,
		FullName:          r.FullName,
		Gender:            r.Gender,
		Age:               intPtr(r.Age),
		University:        r.University,
		Faculty:           r.Faculty,
		Department:        r.Department,
		CourseOfStudy:     r.CourseOfStudy,
		YearOfStudy:       intPtr(r.YearOfStudy),
		Religion:          r.Religion,
		Bio:               r.Bio,
		BudgetMin:         r.BudgetMin,
		BudgetMax:         r.BudgetMax,
		PreferredLocation: r.PreferredLocation,
		Verified:          r.Verified,
		Active:            r.Active,
	}
	if err := json.Unmarshal([]byte(r.Interests), &p.Interests); err != nil {
		return models.RoommateProfile{}, fmt.Errorf("profile %s has malformed interests: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.LifestylePreferences), &p.LifestylePreferences); err != nil {
		return models.RoommateProfile{}, fmt.Errorf("profile %s has malformed lifestyle preferences: %w", r.ID, err)
	}
	createdAt, err := time.Parse(timestampLayout, r.CreatedAt)
	if err != nil {
		return models.RoommateProfile{}, fmt.Errorf("profile %s has malformed created_at: %w", r.ID, err)
	}
	p.CreatedAt = createdAt
	return p, nil
}

func (q *Queries) getRoommate(ctx context.Context, ext sqlx.QueryerContext, where string, arg string) (models.RoommateProfile, error) {
	var row roommateRow
	query := q.db.Rebind("SELECT " + roommateColumns + " FROM roommate_profiles WHERE " + where + " = ?")
	if err := sqlx.GetContext(ctx, ext, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoommateProfile{}, storage.ErrNotFound
		}
		return models.RoommateProfile{}, err
	}
	return row.profile()
}

func (q *Queries) UpsertRoommateProfile(ctx context.Context, profile models.RoommateProfile) (models.RoommateProfile, error) {
	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.RoommateProfile{}, err
	}
	defer tx.Rollback()

	if profile.ID == "" {
		mine, err := q.getRoommate(ctx, tx, "user_id", profile.UserID)
		switch {
		case err == nil:
			profile.ID = mine.ID
		case !errors.Is(err, storage.ErrNotFound):
			return models.RoommateProfile{}, err
		}
	}

	existing, err := q.getRoommate(ctx, tx, "id", profile.ID)
	switch {
	case err == nil:
		if existing.UserID != profile.UserID {
			return models.RoommateProfile{}, storage.ErrNotOwner
		}
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, storage.ErrNotFound):
		if profile.ID != "" {
			mine, err := q.getRoommate(ctx, tx, "user_id", profile.UserID)
			switch {
			case err == nil:
				return models.RoommateProfile{}, fmt.Errorf("%w: user %s owns %s", storage.ErrProfileExists, profile.UserID, mine.ID)
			case !errors.Is(err, storage.ErrNotFound):
				return models.RoommateProfile{}, err
			}
		}
		if profile.ID == "" {
			profile.ID = uuid.New().String()
		}
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = time.Now().UTC()
		}
	default:
		return models.RoommateProfile{}, err
	}

	row, err := toRow(profile)
	if err != nil {
		return models.RoommateProfile{}, fmt.Errorf("failed to serialize profile: %w", err)
	}

	// user_id is deliberately absent from the update set.
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO roommate_profiles (`+roommateColumns+`)
		VALUES (:id, :user_id, :full_name, :gender, :age, :university, :faculty, :department,
			:course_of_study, :year_of_study, :religion, :bio, :budget_min, :budget_max,
			:preferred_location, :interests, :lifestyle_preferences, :verified, :active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			gender = excluded.gender,
			age = excluded.age,
			university = excluded.university,
			faculty = excluded.faculty,
			department = excluded.department,
			course_of_study = excluded.course_of_study,
			year_of_study = excluded.year_of_study,
			religion = excluded.religion,
			bio = excluded.bio,
			budget_min = excluded.budget_min,
			budget_max = excluded.budget_max,
			preferred_location = excluded.preferred_location,
			interests = excluded.interests,
			lifestyle_preferences = excluded.lifestyle_preferences,
			verified = excluded.verified,
			active = excluded.active`, row)
	if err != nil {
		return models.RoommateProfile{}, fmt.Errorf("failed to save roommate profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.RoommateProfile{}, err
	}
	return profile, nil
}

func (q *Queries) GetRoommateProfileByUser(ctx context.Context, userID string) (models.RoommateProfile, error) {
	p, err := q.getRoommate(ctx, q.db, "user_id", userID)
	if err != nil {
		return models.RoommateProfile{}, fmt.Errorf("roommate profile for %s: %w", userID, err)
	}
	return p, nil
}

func (q *Queries) GetVisibleRoommateProfiles(ctx context.Context, viewer models.Viewer) ([]models.RoommateProfile, error) {
	profiles := []models.RoommateProfile{}
	if viewer.Gender == "" {
		return profiles, nil
	}

	var rows []roommateRow
	err := q.db.SelectContext(ctx, &rows, q.db.Rebind(`
		SELECT `+roommateColumns+` FROM roommate_profiles
		WHERE gender = ? AND user_id <> ? AND active = ?
		ORDER BY created_at DESC, id`), viewer.Gender, viewer.UserID, true)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		p, err := r.profile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (q *Queries) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := q.db.GetContext(ctx, &value, q.db.Rebind("SELECT value FROM kv_state WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (q *Queries) SetValue(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, q.db.Rebind(
		"INSERT INTO kv_state (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"),
		key, value)
	return err
}

func (q *Queries) DeleteValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, q.db.Rebind("DELETE FROM kv_state WHERE key = ?"), key)
	return err
}
