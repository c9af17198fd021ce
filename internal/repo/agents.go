package repo

import (
	"context"
	"database/sql"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

func (r Repo) InsertAgent(ctx context.Context, tx *sql.Tx, a domain.Agent) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO agents(id,profile_id,name,status,notes,created_at) VALUES (?,?,?,?,?,?)`,
		a.ID, a.ProfileID, a.Name, string(a.Status), nullable(a.Notes), a.CreatedAt)
	return translate(err)
}

func (r Repo) GetAgentByProfile(ctx context.Context, tx *sql.Tx, profileID string) (domain.Agent, error) {
	var a domain.Agent
	var status string
	var notes sql.NullString
	err := r.q(tx).QueryRowContext(ctx, `SELECT id,profile_id,name,status,notes,created_at FROM agents WHERE profile_id=?`, profileID).
		Scan(&a.ID, &a.ProfileID, &a.Name, &status, &notes, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}
	a.Status = domain.AgentStatus(status)
	a.Notes = notes.String
	return a, nil
}

func (r Repo) InsertOutreachTask(ctx context.Context, tx *sql.Tx, t domain.OutreachTask) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO outreach_tasks(id,agent_id,target_id,status,contact_notes,created_at) VALUES (?,?,?,?,?,?)`,
		t.ID, t.AgentID, t.TargetID, string(t.Status), nullable(t.ContactNotes), t.CreatedAt)
	return translate(err)
}

// ListOutreachTasks returns an agent's tasks, newest first.
func (r Repo) ListOutreachTasks(ctx context.Context, agentID string) ([]domain.OutreachTask, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,agent_id,target_id,status,contact_notes,created_at FROM outreach_tasks WHERE agent_id=? ORDER BY created_at DESC, rowid DESC`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.OutreachTask{}
	for rows.Next() {
		var t domain.OutreachTask
		var status string
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.AgentID, &t.TargetID, &status, &notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.OutreachStatus(status)
		t.ContactNotes = notes.String
		res = append(res, t)
	}
	return res, rows.Err()
}
