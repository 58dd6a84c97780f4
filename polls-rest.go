package strawpoll

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strawpoll/strawpoll/polls"
)

type PollsREST struct {
	repository *polls.Repository
}

func NewPollsREST(repository *polls.Repository) *PollsREST {
	return &PollsREST{
		repository: repository,
	}
}

type pollCreationRequest struct {
	Title                   string   `json:"title"`
	Options                 []string `json:"options"`
	AllowMultipleSelections bool     `json:"allowMultipleSelections"`
	RequireParticipantNames bool     `json:"requireParticipantNames"`
	UseCaptcha              bool     `json:"useCaptcha"`
	VotingMethod            string   `json:"votingMethod"`
}

type apiPollSummary struct {
	PollID string `json:"pollId"`
	Title  string `json:"title"`
}

type apiOptionData struct {
	OptionText string `json:"optionText"`
	VoteValue  int32  `json:"voteValue"`
}

type apiPoll struct {
	PollID  string          `json:"pollId"`
	Title   string          `json:"title"`
	Options []apiOptionData `json:"options"`
}

func (s *PollsREST) SetupRouter(router *gin.Engine) {
	router.POST("/api/polls", func(ctx *gin.Context) {
		s.postAction(ctx)
	})

	router.GET("/api/polls", func(ctx *gin.Context) {
		s.listAction(ctx)
	})

	router.GET("/api/polls/:id", func(ctx *gin.Context) {
		s.getAction(ctx)
	})

	router.PATCH("/api/polls/updateVoteValue", func(ctx *gin.Context) {
		s.updateVoteValueAction(ctx)
	})

	router.DELETE("/api/polls/:id", func(ctx *gin.Context) {
		s.deleteAction(ctx)
	})
}

func (s *PollsREST) postAction(ctx *gin.Context) {
	request := pollCreationRequest{}

	err := ctx.BindJSON(&request)
	if err != nil {
		return
	}

	pollID, err := s.repository.Create(ctx, polls.CreatePollInput{
		Title:                    request.Title,
		Options:                  request.Options,
		AllowMultipleSelections:  request.AllowMultipleSelections,
		RequireParticipantsNames: request.RequireParticipantNames,
		UseCaptcha:               request.UseCaptcha,
		VotingMethod:             request.VotingMethod,
	})
	if err != nil {
		if errors.Is(err, polls.ErrValidation) {
			ctx.String(http.StatusBadRequest, err.Error())

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	pollsCreatedTotal.Inc()

	ctx.String(http.StatusOK, pollID)
}

func (s *PollsREST) listAction(ctx *gin.Context) {
	summaries, err := s.repository.List(ctx)
	if err != nil {
		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	res := make([]apiPollSummary, 0, len(summaries))
	for _, summary := range summaries {
		res = append(res, apiPollSummary{
			PollID: summary.PollID,
			Title:  summary.Title,
		})
	}

	ctx.JSON(http.StatusOK, res)
}

func (s *PollsREST) getAction(ctx *gin.Context) {
	poll, err := s.repository.Poll(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.Status(http.StatusNotFound)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	options := make([]apiOptionData, 0, len(poll.Options))
	for _, option := range poll.Options {
		options = append(options, apiOptionData{
			OptionText: option.OptionText,
			VoteValue:  option.VoteValue,
		})
	}

	ctx.JSON(http.StatusOK, apiPoll{
		PollID:  poll.PollID,
		Title:   poll.Title,
		Options: options,
	})
}

func (s *PollsREST) updateVoteValueAction(ctx *gin.Context) {
	pollID := ctx.Query("pollId")
	optionText := ctx.Query("optionText")

	if pollID == "" || optionText == "" {
		ctx.String(http.StatusBadRequest, "PollId and OptionText are required.")

		return
	}

	err := s.repository.IncrementVote(ctx, pollID, optionText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.String(http.StatusNotFound,
				"No option found with PollId: %s and OptionText: %s", pollID, optionText)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	votesTotal.Inc()

	ctx.String(http.StatusOK, "VoteValue updated successfully.")
}

func (s *PollsREST) deleteAction(ctx *gin.Context) {
	err := s.repository.Delete(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.Status(http.StatusNotFound)

			return
		}

		ctx.String(http.StatusInternalServerError, err.Error())

		return
	}

	ctx.Status(http.StatusNoContent)
}
