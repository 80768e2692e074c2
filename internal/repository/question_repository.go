package repository

import (
	"context"
	"database/sql"
	"qnasearch/internal/model"
	"strings"
)

// SearchLimit caps the number of rows a search returns.
const SearchLimit = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ContainsPattern turns a raw query into an ILIKE pattern that matches it
// literally anywhere in the column.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (r *QuestionRepository) Search(ctx context.Context, query string, mode model.SearchMode, limit int) ([]model.Question, error) {
	pattern := ContainsPattern(query)

	var (
		rows *sql.Rows
		err  error
	)

	if mode == model.SearchModeBoth {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, title, date, transcription
			FROM questions
			WHERE title ILIKE $1 ESCAPE '\' OR transcription ILIKE $1 ESCAPE '\'
			ORDER BY date DESC
			LIMIT $2
		`, pattern, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, title, date, transcription
			FROM questions
			WHERE title ILIKE $1 ESCAPE '\'
			ORDER BY date DESC
			LIMIT $2
		`, pattern, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var transcription sql.NullString
		err := rows.Scan(&q.ID, &q.Title, &q.Date, &transcription)
		if err != nil {
			return nil, err
		}
		q.Transcription = transcription.String
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	var q model.Question
	var transcription sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, date, transcription
		FROM questions
		WHERE id = $1
	`, id).Scan(&q.ID, &q.Title, &q.Date, &transcription)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	q.Transcription = transcription.String
	return &q, nil
}

// Upsert inserts a question or replaces the transcription of the row with
// the same title and date. It reports whether a new row was created.
func (r *QuestionRepository) Upsert(ctx context.Context, q *model.Question) (bool, error) {
	var inserted bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO questions(title, date, transcription)
		VALUES($1, $2, $3)
		ON CONFLICT (title, date) DO UPDATE SET transcription = EXCLUDED.transcription
		RETURNING id, (xmax = 0)
	`, q.Title, q.Date, q.Transcription).Scan(&q.ID, &inserted)

	if err != nil {
		return false, err
	}

	return inserted, nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM questions
	`).Scan(&total)
	return total, err
}
