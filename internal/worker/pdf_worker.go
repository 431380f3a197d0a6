package worker

// pdf_worker.go
// Renders invoice PDFs into PDF_STORAGE_PATH after an invoice is saved and
// removes them after it is deleted. A Redis lock per invoice keeps two
// workers from writing the same file at once.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/infra"
	"pactumsuite/internal/service"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const pdfLockTTL = 30 * time.Second

// FacturaLector is the read side of the invoice service the worker needs.
type FacturaLector interface {
	Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
}

type PDFWorker struct {
	facturas    FacturaLector
	locker      *redislock.Client
	storagePath string
	empresa     string
}

func NewPDFWorker(facturas FacturaLector, locker *redislock.Client, storagePath, empresa string) *PDFWorker {
	return &PDFWorker{facturas: facturas, locker: locker, storagePath: storagePath, empresa: empresa}
}

// Handlers returns the job handlers this worker serves, keyed by job type.
func (w *PDFWorker) Handlers() map[string]JobHandler {
	return map[string]JobHandler{
		JobFacturaPDF:         w.Generar,
		JobFacturaPDFEliminar: w.Eliminar,
	}
}

// Generar renders the current state of the invoice. An invoice deleted
// before the job runs is skipped without error.
func (w *PDFWorker) Generar(ctx context.Context, raw json.RawMessage) error {
	id, err := parseFacturaPayload(raw)
	if err != nil {
		return err
	}
	return w.conLock(ctx, id, func() error {
		f, err := w.facturas.Obtener(ctx, id)
		if errors.Is(err, service.ErrNoEncontrado) {
			log.Info().Str("factura_id", id.String()).Msg("pdf_worker: invoice gone, skipping render")
			return nil
		}
		if err != nil {
			return err
		}
		path, err := infra.GuardarFacturaPDF(w.storagePath, w.empresa, f)
		if err != nil {
			return err
		}
		log.Info().Str("pdf", path).Str("factura_id", id.String()).Msg("pdf_worker: PDF generated")
		return nil
	})
}

// Eliminar removes the stored PDF of a deleted invoice. A missing file is
// not an error.
func (w *PDFWorker) Eliminar(ctx context.Context, raw json.RawMessage) error {
	id, err := parseFacturaPayload(raw)
	if err != nil {
		return err
	}
	return w.conLock(ctx, id, func() error {
		err := os.Remove(infra.RutaFacturaPDF(w.storagePath, id.String()))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
}

func (w *PDFWorker) conLock(ctx context.Context, id uuid.UUID, fn func() error) error {
	if w.locker == nil {
		return fn()
	}
	lock, err := w.locker.Obtain(ctx, "lock:factura_pdf:"+id.String(), pdfLockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("pdf_worker: invoice %s is locked by another worker", id)
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()
	return fn()
}

func parseFacturaPayload(raw json.RawMessage) (uuid.UUID, error) {
	var payload FacturaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return uuid.Nil, fmt.Errorf("pdf_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("pdf_worker: invalid factura_id %q", payload.FacturaID)
	}
	return id, nil
}
