package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/event-seating/internal/model"
)

// cfgID is the constant key of the singleton event_config row.  The table
// is a single-row store by construction: every statement addresses id 1
// and the bootstrap seeds exactly that row.
const cfgID = 1

// EventConfigRepo owns the singleton event configuration record: the
// event imagery and the JSON table-map document.  Document mutations are
// read-modify-write; callers that rewrite the document do so inside a
// transaction via the Tx variants, which lock the row so the map
// operations serialize.
type EventConfigRepo struct{ DB *sql.DB }

func NewEventConfigRepo(db *sql.DB) *EventConfigRepo { return &EventConfigRepo{DB: db} }

// Get loads the configuration row.
func (r *EventConfigRepo) Get(ctx context.Context) (model.EventConfig, error) {
    var cfg model.EventConfig
    var eventImage, mainImage, value sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, event_image, main_image, value, updated_at
         FROM event_config WHERE id = ? LIMIT 1`, cfgID).
        Scan(&cfg.ID, &eventImage, &mainImage, &value, &cfg.UpdatedAt)
    if err == sql.ErrNoRows {
        return cfg, ErrNotFound
    }
    if err != nil {
        return cfg, err
    }
    cfg.EventImage = eventImage.String
    cfg.MainImage = mainImage.String
    if value.Valid {
        cfg.Value = []byte(value.String)
    }
    return cfg, nil
}

// SetEventImage stores the floor-plan background image.
func (r *EventConfigRepo) SetEventImage(ctx context.Context, image string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE event_config SET event_image = ? WHERE id = ?`, image, cfgID)
    return err
}

// SetMainImage stores the event cover image.
func (r *EventConfigRepo) SetMainImage(ctx context.Context, image string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE event_config SET main_image = ? WHERE id = ?`, image, cfgID)
    return err
}

// GetDoc loads and normalizes the table-map document outside any
// transaction, for read-only paths.
func (r *EventConfigRepo) GetDoc(ctx context.Context) (model.TableMap, error) {
    var value sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT value FROM event_config WHERE id = ? LIMIT 1`, cfgID).Scan(&value)
    if err == sql.ErrNoRows {
        return model.NewTableMap(), nil
    }
    if err != nil {
        return model.TableMap{}, err
    }
    return model.ParseTableMap([]byte(value.String))
}

// GetDocTx loads the document with the row locked for update.  Every map
// mutation starts here so concurrent edits line up behind the row lock
// instead of overwriting each other mid-transaction.
func (r *EventConfigRepo) GetDocTx(ctx context.Context, tx *sql.Tx) (model.TableMap, error) {
    var value sql.NullString
    err := tx.QueryRowContext(ctx,
        `SELECT value FROM event_config WHERE id = ? FOR UPDATE`, cfgID).Scan(&value)
    if err == sql.ErrNoRows {
        return model.TableMap{}, ErrNotFound
    }
    if err != nil {
        return model.TableMap{}, err
    }
    return model.ParseTableMap([]byte(value.String))
}

// SaveDocTx writes the document back within the transaction.
func (r *EventConfigRepo) SaveDocTx(ctx context.Context, tx *sql.Tx, doc model.TableMap) error {
    raw, err := doc.Encode()
    if err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx,
        `UPDATE event_config SET value = ? WHERE id = ?`, string(raw), cfgID)
    return err
}
