package schema

import "github.com/doug-martin/goqu/v9"

const (
	PollTableName                            = "polls"
	PollTablePollIDColName                   = "poll_id"
	PollTableTitleColName                    = "title"
	PollTableNumOfOptionsColName             = "num_of_options"
	PollTableAllowMultipleSelectionsColName  = "allow_multiple_selections"
	PollTableRequireParticipantsNamesColName = "require_participants_names"
	PollTableUseCaptchaColName               = "use_captcha"
	PollTableVotingMethodColName             = "voting_method"
)

var (
	PollTable                            = goqu.T(PollTableName)
	PollTablePollIDCol                   = PollTable.Col(PollTablePollIDColName)
	PollTableTitleCol                    = PollTable.Col(PollTableTitleColName)
	PollTableNumOfOptionsCol             = PollTable.Col(PollTableNumOfOptionsColName)
	PollTableAllowMultipleSelectionsCol  = PollTable.Col(PollTableAllowMultipleSelectionsColName)
	PollTableRequireParticipantsNamesCol = PollTable.Col(PollTableRequireParticipantsNamesColName)
	PollTableUseCaptchaCol               = PollTable.Col(PollTableUseCaptchaColName)
	PollTableVotingMethodCol             = PollTable.Col(PollTableVotingMethodColName)
)

type PollRow struct {
	PollID                   string `db:"poll_id"`
	Title                    string `db:"title"`
	NumOfOptions             int32  `db:"num_of_options"`
	AllowMultipleSelections  bool   `db:"allow_multiple_selections"`
	RequireParticipantsNames bool   `db:"require_participants_names"`
	UseCaptcha               bool   `db:"use_captcha"`
	VotingMethod             string `db:"voting_method"`
}
