package engine

import (
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/guardrail"
)

// handleIngest accepts a batch of raw events, redacting secrets and
// flagging unsafe-instruction content before each is appended as an
// episode. Duplicate fingerprints (same storeId+type+source+content) are
// counted, not re-stored (spec.md §4.7).
func handleIngest(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	events := getMapSlice(req, "events")
	if len(events) == 0 {
		if envelope := getMap(req, "envelope"); envelope != nil {
			events = []map[string]any{normalizeEnvelope(envelope)}
		}
	}

	bucket := e.tree.Store(storeID).Profile(profile).Episodes
	now := e.now()

	accepted, duplicates, rejected := 0, 0, 0
	rejections := make([]map[string]any, 0)

	for _, ev := range events {
		content, redactionCount := guardrail.Redact(getString(ev, "content", ""))
		unsafe := guardrail.IsUnsafeInstruction(content)

		ep, err := entity.NewEpisode(entity.NewEpisodeInput{
			StoreID:           storeID,
			Type:              getString(ev, "type", ""),
			Source:            getString(ev, "source", ""),
			Content:           content,
			Payload:           getMap(ev, "payload"),
			Metadata:          getMap(ev, "metadata"),
			CreatedAt:         now,
			RedactionCount:    redactionCount,
			UnsafeInstruction: unsafe,
		})
		if err != nil {
			rejected++
			rejections = append(rejections, map[string]any{"error": err.Error()})
			continue
		}

		if _, dup := bucket.Put(ep); dup {
			duplicates++
			continue
		}
		accepted++
	}

	data := map[string]any{
		"accepted":   accepted,
		"duplicates": duplicates,
		"rejected":   rejected,
		"stats": map[string]any{
			"total": len(events),
		},
	}
	if len(rejections) > 0 {
		data["rejections"] = rejections
	}

	action := "noop"
	if accepted > 0 {
		action = "created"
	}
	return data, action, nil
}

// normalizeEnvelope maps a source envelope (a Jira issue, a chat
// conversation turn) into the flat event shape handleIngest expects.
// Recognized envelope kinds carry a "kind" discriminator; unrecognized
// kinds pass their "content" field through unchanged.
func normalizeEnvelope(envelope map[string]any) map[string]any {
	kind := getString(envelope, "kind", "")
	switch kind {
	case "jira_issue":
		summary := getString(envelope, "summary", "")
		description := getString(envelope, "description", "")
		content := summary
		if description != "" {
			content = summary + "\n" + description
		}
		return map[string]any{
			"type":     "jira_issue",
			"source":   "jira",
			"content":  content,
			"payload":  envelope,
			"metadata": getMap(envelope, "metadata"),
		}
	case "chat_turn":
		return map[string]any{
			"type":     "chat_turn",
			"source":   getString(envelope, "speaker", "chat"),
			"content":  getString(envelope, "message", ""),
			"payload":  envelope,
			"metadata": getMap(envelope, "metadata"),
		}
	default:
		return map[string]any{
			"type":     getString(envelope, "type", "event"),
			"source":   getString(envelope, "source", ""),
			"content":  getString(envelope, "content", ""),
			"payload":  envelope,
			"metadata": getMap(envelope, "metadata"),
		}
	}
}
