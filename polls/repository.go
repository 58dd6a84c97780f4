package polls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	mysqlerrors "github.com/go-mysql/errors"
	"github.com/strawpoll/strawpoll/identifier"
	"github.com/strawpoll/strawpoll/schema"
)

const (
	MaxTitleLength      = 255
	MaxOptionTextLength = 255

	DefaultVotingMethod = "ipAddress"
)

// ErrValidation is the common ancestor of all input validation errors.
var ErrValidation = errors.New("invalid poll input")

var (
	ErrTitleRequired     = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong      = fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	ErrOptionsRequired   = fmt.Errorf("%w: options list is required", ErrValidation)
	ErrOptionTextMissing = fmt.Errorf("%w: option text is required", ErrValidation)
	ErrOptionTextTooLong = fmt.Errorf("%w: option text exceeds %d characters", ErrValidation, MaxOptionTextLength)
)

// Generator produces candidate public identifiers.
type Generator interface {
	Generate(length int) string
}

type Repository struct {
	db          *goqu.Database
	idGenerator Generator
}

// NewRepository constructor.
func NewRepository(db *goqu.Database, idGenerator Generator) *Repository {
	return &Repository{
		db:          db,
		idGenerator: idGenerator,
	}
}

type CreatePollInput struct {
	Title                    string
	Options                  []string
	AllowMultipleSelections  bool
	RequireParticipantsNames bool
	UseCaptcha               bool
	VotingMethod             string
}

type PollSummary struct {
	PollID string `db:"poll_id"`
	Title  string `db:"title"`
}

type Poll struct {
	schema.PollRow
	Options []*schema.OptionDataRow
}

// Create persists a new poll with its options as one transaction and returns
// the assigned public identifier. Identifier collisions are not errors: the
// poll_id primary key rejects the insert and a fresh identifier is tried.
func (s *Repository) Create(ctx context.Context, input CreatePollInput) (string, error) {
	if err := validateCreateInput(input); err != nil {
		return "", err
	}

	votingMethod := input.VotingMethod
	if votingMethod == "" {
		votingMethod = DefaultVotingMethod
	}

	for {
		id := s.idGenerator.Generate(identifier.DefaultLength)

		exists, err := s.Exists(ctx, id)
		if err != nil {
			return "", err
		}

		if exists {
			continue
		}

		err = s.db.WithTx(func(tx *goqu.TxDatabase) error {
			_, err := tx.Insert(schema.PollTable).Rows(goqu.Record{
				schema.PollTablePollIDColName:                   id,
				schema.PollTableTitleColName:                    input.Title,
				schema.PollTableNumOfOptionsColName:             len(input.Options),
				schema.PollTableAllowMultipleSelectionsColName:  input.AllowMultipleSelections,
				schema.PollTableRequireParticipantsNamesColName: input.RequireParticipantsNames,
				schema.PollTableUseCaptchaColName:               input.UseCaptcha,
				schema.PollTableVotingMethodColName:             votingMethod,
			}).Executor().ExecContext(ctx)
			if err != nil {
				return err
			}

			if len(input.Options) == 0 {
				return nil
			}

			records := make([]goqu.Record, 0, len(input.Options))
			for idx, text := range input.Options {
				records = append(records, goqu.Record{
					schema.OptionDataTablePollIDColName:     id,
					schema.OptionDataTableOptionIDColName:   idx + 1,
					schema.OptionDataTableOptionTextColName: text,
					schema.OptionDataTableVoteValueColName:  0,
				})
			}

			_, err = tx.Insert(schema.OptionDataTable).Rows(records).Executor().ExecContext(ctx)

			return err
		})
		if err != nil {
			if ok, myErr := mysqlerrors.Error(err); ok && errors.Is(myErr, mysqlerrors.ErrDupeKey) {
				continue
			}

			return "", err
		}

		return id, nil
	}
}

func validateCreateInput(input CreatePollInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrTitleRequired
	}

	if utf8.RuneCountInString(input.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if input.Options == nil {
		return ErrOptionsRequired
	}

	for _, text := range input.Options {
		if strings.TrimSpace(text) == "" {
			return ErrOptionTextMissing
		}

		if utf8.RuneCountInString(text) > MaxOptionTextLength {
			return ErrOptionTextTooLong
		}
	}

	return nil
}

// Exists reports whether a poll with the given identifier is already stored.
func (s *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool

	success, err := s.db.Select(goqu.V(true)).
		From(schema.PollTable).
		Where(schema.PollTablePollIDCol.Eq(id)).
		ScanValContext(ctx, &exists)
	if err != nil {
		return false, err
	}

	return success, nil
}

// List returns the id and title of every poll. Each call issues a fresh query.
func (s *Repository) List(ctx context.Context) ([]PollSummary, error) {
	var rows []PollSummary

	err := s.db.Select(schema.PollTablePollIDCol, schema.PollTableTitleCol).
		From(schema.PollTable).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// Poll fetches a poll with its options ordered by option position.
func (s *Repository) Poll(ctx context.Context, id string) (*Poll, error) {
	var poll Poll

	success, err := s.db.Select(
		schema.PollTablePollIDCol, schema.PollTableTitleCol, schema.PollTableNumOfOptionsCol,
		schema.PollTableAllowMultipleSelectionsCol, schema.PollTableRequireParticipantsNamesCol,
		schema.PollTableUseCaptchaCol, schema.PollTableVotingMethodCol,
	).
		From(schema.PollTable).
		Where(schema.PollTablePollIDCol.Eq(id)).
		ScanStructContext(ctx, &poll)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, sql.ErrNoRows
	}

	err = s.db.Select(
		schema.OptionDataTableDataIDCol, schema.OptionDataTablePollIDCol,
		schema.OptionDataTableOptionIDCol, schema.OptionDataTableOptionTextCol,
		schema.OptionDataTableVoteValueCol,
	).
		From(schema.OptionDataTable).
		Where(schema.OptionDataTablePollIDCol.Eq(poll.PollID)).
		Order(schema.OptionDataTableOptionIDCol.Asc()).
		ScanStructsContext(ctx, &poll.Options)
	if err != nil {
		return nil, err
	}

	return &poll, nil
}

// IncrementVote adds 1 to the counter of the (pollID, optionText) pair as a
// single UPDATE statement, so concurrent votes never lose an update. When a
// poll has several options with the same text exactly one row is affected.
func (s *Repository) IncrementVote(ctx context.Context, pollID string, optionText string) error {
	res, err := s.db.Update(schema.OptionDataTable).
		Set(goqu.Record{
			schema.OptionDataTableVoteValueColName: goqu.L(schema.OptionDataTableVoteValueColName + " + 1"),
		}).
		Where(
			schema.OptionDataTablePollIDCol.Eq(pollID),
			schema.OptionDataTableOptionTextCol.Eq(optionText),
		).
		Limit(1).
		Executor().ExecContext(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete removes the poll and every option row referencing it as one
// transaction. Orphan option rows are never observable.
func (s *Repository) Delete(ctx context.Context, id string) error {
	return s.db.WithTx(func(tx *goqu.TxDatabase) error {
		_, err := tx.Delete(schema.OptionDataTable).
			Where(schema.OptionDataTablePollIDCol.Eq(id)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		res, err := tx.Delete(schema.PollTable).
			Where(schema.PollTablePollIDCol.Eq(id)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			return sql.ErrNoRows
		}

		return nil
	})
}
