package handler

// BroadcastBattleEvent wraps data in the battle's event envelope and fans it
// out. The battle host funnels everything it emits through here.
func (h *Hub) BroadcastBattleEvent(battleID string, eventType string, data any) {
	h.BroadcastToBattle(battleID, WSEvent{
		Type:     eventType,
		BattleID: battleID,
		Data:     data,
	})
}
