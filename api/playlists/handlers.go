package playlists

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/record"
	"github.com/stationhq/media-api/internal/services/playlists"
)

// PostRule stores a new rule under a playlist
// POST /api/v1/playlists/:id/rules
func PostRule(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		playlistID, ok := types.ParseInt64Param(c, "id")
		if !ok {
			return
		}

		var payload map[string]any
		if !types.BindJSONOrError(c, &payload) {
			return
		}

		rule, err := deps.PlaylistService.CreateRule(c.Request.Context(), playlistID, payload)
		if err != nil {
			sendRuleError(c, err, "failed to create playlist rule")
			return
		}

		types.SendCreated(c, types.SinglePlaylistRuleResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "rule created"},
			Rule:         rule,
		})
	}
}

// GetRules lists the rules stored for a playlist
// GET /api/v1/playlists/:id/rules
func GetRules(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		playlistID, ok := types.ParseInt64Param(c, "id")
		if !ok {
			return
		}

		rules, err := deps.PlaylistService.ListRules(c.Request.Context(), playlistID)
		if err != nil {
			sendRuleError(c, err, "failed to list playlist rules")
			return
		}

		types.SendSuccess(c, types.PlaylistRulesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Rules:        rules,
			Count:        len(rules),
		})
	}
}

// PutRule applies a payload to a stored rule
// PUT /api/v1/playlists/:id/rules/:rule_id
func PutRule(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ruleID, ok := types.ParseInt64Param(c, "rule_id")
		if !ok {
			return
		}

		var payload map[string]any
		if !types.BindJSONOrError(c, &payload) {
			return
		}

		rule, err := deps.PlaylistService.UpdateRule(c.Request.Context(), ruleID, payload)
		if err != nil {
			sendRuleError(c, err, "failed to update playlist rule")
			return
		}

		types.SendSuccess(c, types.SinglePlaylistRuleResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "rule updated"},
			Rule:         rule,
		})
	}
}

// DeleteRule removes a stored rule
// DELETE /api/v1/playlists/:id/rules/:rule_id
func DeleteRule(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ruleID, ok := types.ParseInt64Param(c, "rule_id")
		if !ok {
			return
		}

		if err := deps.PlaylistService.DeleteRule(c.Request.Context(), ruleID); err != nil {
			sendRuleError(c, err, "failed to delete playlist rule")
			return
		}

		types.SendNoContent(c)
	}
}

func sendRuleError(c *gin.Context, err error, fallback string) {
	var verrs *record.ValidationErrors
	switch {
	case playlists.IsNotFound(err):
		types.SendNotFound(c, err.Error())
	case errors.As(err, &verrs):
		types.SendUnprocessable(c, "rule payload failed validation", verrs.Error())
	default:
		types.SendInternalError(c, fallback)
	}
}
