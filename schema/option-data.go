package schema

import "github.com/doug-martin/goqu/v9"

const (
	OptionDataTableName              = "option_datas"
	OptionDataTableDataIDColName     = "data_id"
	OptionDataTablePollIDColName     = "poll_id"
	OptionDataTableOptionIDColName   = "option_id"
	OptionDataTableOptionTextColName = "option_text"
	OptionDataTableVoteValueColName  = "vote_value"
)

var (
	OptionDataTable              = goqu.T(OptionDataTableName)
	OptionDataTableDataIDCol     = OptionDataTable.Col(OptionDataTableDataIDColName)
	OptionDataTablePollIDCol     = OptionDataTable.Col(OptionDataTablePollIDColName)
	OptionDataTableOptionIDCol   = OptionDataTable.Col(OptionDataTableOptionIDColName)
	OptionDataTableOptionTextCol = OptionDataTable.Col(OptionDataTableOptionTextColName)
	OptionDataTableVoteValueCol  = OptionDataTable.Col(OptionDataTableVoteValueColName)
)

type OptionDataRow struct {
	DataID     int64  `db:"data_id"`
	PollID     string `db:"poll_id"`
	OptionID   int32  `db:"option_id"`
	OptionText string `db:"option_text"`
	VoteValue  int32  `db:"vote_value"`
}
