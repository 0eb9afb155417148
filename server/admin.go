package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供房间参数的读取与更新（热更新基本规则）
// GET /admin/config?room=plaza  返回当前配置
// POST /admin/config?room=plaza 以 JSON 载荷更新部分字段
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = DefaultRoomID
	}
	rm := GetRoomManager()
	room, ok := rm.Lookup(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		cfg, ok := room.Config()
		if !ok {
			http.Error(w, "room unavailable", http.StatusServiceUnavailable)
			return
		}
		writeConfig(w, cfg)
		return
	case http.MethodPost:
		var patch ConfigPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		cfg, ok := room.UpdateConfig(patch)
		if !ok {
			http.Error(w, "room unavailable", http.StatusServiceUnavailable)
			return
		}
		writeConfig(w, cfg)
		Log.Infof("config updated: room=%s sitRadius=%.0f moveMinInterval=%s maxChatLen=%d",
			roomID, cfg.SitRadius, cfg.MoveMinInterval, cfg.MaxChatLen)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

func writeConfig(w http.ResponseWriter, cfg RoomConfig) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"width":             cfg.Width,
		"height":            cfg.Height,
		"playerSize":        cfg.PlayerSize,
		"sitRadius":         cfg.SitRadius,
		"moveMinIntervalMs": int(cfg.MoveMinInterval.Milliseconds()),
		"maxChatLen":        cfg.MaxChatLen,
	})
}
