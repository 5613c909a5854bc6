package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportSession appends the journal entries recorded since the last export to a
// text file. The session header is written with the first export.
func ExportSession(s *SessionCtx, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	text, seq := s.exportText(fileExists)

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	s.mu.Lock()
	s.exportedSeq = seq
	s.mu.Unlock()
	return nil
}

// exportText renders the journal entries not exported yet. The file is written
// by the caller after the session lock is released.
func (s *SessionCtx) exportText(fileExists bool) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder

	if s.exportedSeq == 0 {
		if fileExists {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("TV Quiz Results - Session %s\n", s.Code))
		sb.WriteString(fmt.Sprintf("Started: %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")

		players := make([]*Player, 0, len(s.PlayersByID))
		for _, p := range s.PlayersByID {
			players = append(players, p)
		}
		sort.Slice(players, func(i, j int) bool { return players[i].JoinedAt.Before(players[j].JoinedAt) })
		sb.WriteString("Players:\n")
		for _, p := range players {
			sb.WriteString(fmt.Sprintf("- %s\n", p.Name))
		}
		sb.WriteString("\n")
	}

	for _, ev := range s.journal[s.exportedSeq:] {
		switch ev.Type {
		case EventRound:
			if r, ok := ev.Payload.(RoundPayload); ok {
				sb.WriteString(fmt.Sprintf("Round %d: \"%s\"\n", r.Index+1, r.Name))
				sb.WriteString(strings.Repeat("-", 40) + "\n")
			}
		case EventQuestionSelected:
			if q, ok := ev.Payload.(QuestionPayload); ok {
				sb.WriteString(fmt.Sprintf("- %s for %d (%s)\n", q.ThemeName, q.Price, q.Type))
			}
		case EventSelectionUndone:
			if q, ok := ev.Payload.(QuestionPayload); ok {
				sb.WriteString(fmt.Sprintf("  undone: theme %d question %d (%d)\n", q.Theme+1, q.Question+1, q.Price))
			}
		case EventQuestionRemoved:
			if q, ok := ev.Payload.(QuestionPayload); ok {
				sb.WriteString(fmt.Sprintf("  removed: theme %d question %d (%d)\n", q.Theme+1, q.Question+1, q.Price))
			}
		case EventPrepareFinal:
			if q, ok := ev.Payload.(QuestionPayload); ok {
				sb.WriteString(fmt.Sprintf("- Final: %s\n", q.ThemeName))
			}
		case EventRoundTimeout:
			sb.WriteString("  time is up\n")
		case EventRoundEnded:
			sb.WriteString("\n")
		case EventGameEnded:
			sb.WriteString(fmt.Sprintf("Game ended at %s\n", ev.At.Local().Format("2006-01-02 15:04:05")))
			sb.WriteString(strings.Repeat("=", 50) + "\n")
		}
	}
	return sb.String(), len(s.journal)
}
