package service

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-seating/internal/model"
    "github.com/iliyamo/event-seating/internal/repository"
)

// TableMapService synchronizes the floor-plan marker document with the
// physical tables it references.  Every mutation runs in one database
// transaction that locks the singleton config row first, so marker edits
// serialize and the marker/table dual writes commit together or not at
// all.
type TableMapService struct {
    db     *sql.DB
    cfg    *repository.EventConfigRepo
    tables *repository.TableRepo
    res    *repository.ReservationRepo
}

func NewTableMapService(db *sql.DB, cfg *repository.EventConfigRepo, tables *repository.TableRepo, res *repository.ReservationRepo) *TableMapService {
    return &TableMapService{db: db, cfg: cfg, tables: tables, res: res}
}

// Get returns the normalized marker document.
func (s *TableMapService) Get(ctx context.Context) (model.TableMap, error) {
    return s.cfg.GetDoc(ctx)
}

// placeAttempts bounds the retry loop around generated-name collisions.
const placeAttempts = 3

// PlaceMarker stores a new marker at (x, y) and creates its physical
// table in the same transaction.  The table gets the next free numeric
// name and capacity equal to the marker's chair count (floored at 1, as a
// zero-seat table makes no sense).  A name collision from a concurrent
// direct table insert aborts the transaction and the whole sequence is
// retried with a freshly generated name.
func (s *TableMapService) PlaceMarker(ctx context.Context, x, y float64, chairs int) (model.Marker, error) {
    if chairs < 1 {
        chairs = 1
    }
    var lastErr error
    for attempt := 0; attempt < placeAttempts; attempt++ {
        marker, err := s.placeOnce(ctx, x, y, chairs)
        if err == nil {
            return marker, nil
        }
        if !errors.Is(err, repository.ErrTableExists) {
            return model.Marker{}, err
        }
        lastErr = err
    }
    return model.Marker{}, lastErr
}

func (s *TableMapService) placeOnce(ctx context.Context, x, y float64, chairs int) (model.Marker, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Marker{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    doc, err := s.cfg.GetDocTx(ctx, tx)
    if err != nil {
        return model.Marker{}, err
    }
    name, err := s.tables.NextNumericNameTx(ctx, tx)
    if err != nil {
        return model.Marker{}, err
    }
    tableID, err := s.tables.CreateTx(ctx, tx, name, chairs)
    if err != nil {
        return model.Marker{}, err
    }
    marker := model.Marker{
        ID:          doc.NextMarkerID(),
        X:           x,
        Y:           y,
        Chairs:      chairs,
        TableID:     tableID,
        TableNumber: name,
    }
    doc.Markers = append(doc.Markers, marker)
    if err := s.cfg.SaveDocTx(ctx, tx, doc); err != nil {
        return model.Marker{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Marker{}, err
    }
    committed = true
    return marker, nil
}

// UpdateMarker moves and/or resizes a marker.  Position fields update
// unconditionally when present.  A chair change is a dual write: the
// marker and the linked table's capacity change in the same transaction,
// so they can never drift apart.  Non-positive chair counts are ignored
// the way the map editor always has.
func (s *TableMapService) UpdateMarker(ctx context.Context, id uint64, x, y *float64, chairs *int) (model.Marker, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Marker{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    doc, err := s.cfg.GetDocTx(ctx, tx)
    if err != nil {
        return model.Marker{}, err
    }
    i := doc.Find(id)
    if i < 0 {
        return model.Marker{}, repository.ErrNotFound
    }
    if x != nil {
        doc.Markers[i].X = *x
    }
    if y != nil {
        doc.Markers[i].Y = *y
    }
    if chairs != nil && *chairs > 0 {
        doc.Markers[i].Chairs = *chairs
        if doc.Markers[i].TableID != 0 {
            if err := s.tables.UpdateCapacityTx(ctx, tx, doc.Markers[i].TableID, *chairs); err != nil {
                return model.Marker{}, err
            }
        }
    }
    if err := s.cfg.SaveDocTx(ctx, tx, doc); err != nil {
        return model.Marker{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Marker{}, err
    }
    committed = true
    return doc.Markers[i], nil
}

// RemoveMarker deletes a marker and its physical table.  A linked table
// that still holds a reservation blocks the removal with ErrConflict,
// leaving marker and table intact.  The table row is deleted before the
// document is rewritten and both sit in one transaction, so a marker can
// never survive pointing at a deleted table.
func (s *TableMapService) RemoveMarker(ctx context.Context, id uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    doc, err := s.cfg.GetDocTx(ctx, tx)
    if err != nil {
        return err
    }
    i := doc.Find(id)
    if i < 0 {
        return repository.ErrNotFound
    }
    if tableID := doc.Markers[i].TableID; tableID != 0 {
        reserved, err := s.res.HasForTableTx(ctx, tx, tableID)
        if err != nil {
            return err
        }
        if reserved {
            return repository.ErrConflict
        }
        if err := s.tables.DeleteTx(ctx, tx, tableID); err != nil {
            return err
        }
    }
    doc.Remove(id)
    if err := s.cfg.SaveDocTx(ctx, tx, doc); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// SetMarkerSize updates the marker display size.  Out-of-range values are
// silently ignored, not clamped and not an error: the call succeeds and
// the stored size stays what it was.  Returns the effective size.
func (s *TableMapService) SetMarkerSize(ctx context.Context, size int) (int, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    doc, err := s.cfg.GetDocTx(ctx, tx)
    if err != nil {
        return 0, err
    }
    if model.ValidMarkerSize(size) {
        doc.MarkerSize = size
    }
    if err := s.cfg.SaveDocTx(ctx, tx, doc); err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return doc.MarkerSize, nil
}
