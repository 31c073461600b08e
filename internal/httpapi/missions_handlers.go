package httpapi

import (
	"net/http"

	"carvis-engine/internal/track"
)

type MissionsHandler struct {
	App *track.App
}

func (h MissionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.App.MissionState())
}

type missionProgressReq struct {
	MissionID string `json:"missionId"`
}

func (h MissionsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	var req missionProgressReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.MissionID == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_mission", "missionId is required")
		return
	}
	h.App.RecordMissionProgress(r.Context(), req.MissionID)
	writeJSON(w, h.App.MissionState())
}

// Claim requires every mission at target; the streak only advances on a
// genuinely completed week.
func (h MissionsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if !h.App.AllMissionsComplete() {
		WriteError(w, r, http.StatusConflict, "missions_incomplete", "not all missions are complete")
		return
	}
	writeJSON(w, h.App.ClaimReward(r.Context()))
}

func (h MissionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.App.ResetWeek(r.Context()))
}
