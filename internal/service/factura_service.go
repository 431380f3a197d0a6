package service

import (
	"context"
	"fmt"
	"time"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FacturaEventos is notified after an invoice change has been committed.
// Implementations must not fail the caller: the data is already durable.
type FacturaEventos interface {
	FacturaGuardada(ctx context.Context, facturaID uuid.UUID)
	FacturaEliminada(ctx context.Context, facturaID uuid.UUID)
}

// FacturaService orchestrates invoice writes. Every write runs in a single
// transaction covering the invoice row, its lines, the inventory ledger and the
// supplier entries it generates.
type FacturaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Filtrar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	// Exportar returns every matching invoice without paging, for reports.
	Exportar(ctx context.Context, filter dto.FacturaFilter) ([]dto.FacturaResponse, dto.SumasFacturas, error)
	SiguienteConsecutivo(ctx context.Context, anio int) (*dto.SiguienteConsecutivoResponse, error)
}

type facturaService struct {
	repo         repository.FacturaRepository
	contratoRepo repository.ContratoRepository
	productoRepo repository.ProductoRepository
	usuarioRepo  repository.UsuarioRepository
	entradaRepo  repository.EntradaRepository
	inventario   InventarioService
	numeracion   NumeracionService
	eventos      FacturaEventos
}

// NewFacturaService wires the orchestrator. eventos may be nil.
func NewFacturaService(
	repo repository.FacturaRepository,
	contratoRepo repository.ContratoRepository,
	productoRepo repository.ProductoRepository,
	usuarioRepo repository.UsuarioRepository,
	entradaRepo repository.EntradaRepository,
	inventario InventarioService,
	numeracion NumeracionService,
	eventos FacturaEventos,
) FacturaService {
	return &facturaService{
		repo:         repo,
		contratoRepo: contratoRepo,
		productoRepo: productoRepo,
		usuarioRepo:  usuarioRepo,
		entradaRepo:  entradaRepo,
		inventario:   inventario,
		numeracion:   numeracion,
		eventos:      eventos,
	}
}

func (s *facturaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	var errs []string
	if req.NumConsecutivo == nil || req.Fecha == "" || req.ContratoID == "" {
		errs = append(errs, "faltan campos obligatorios: num_consecutivo, fecha y contrato_id")
	}
	num := 0
	if req.NumConsecutivo != nil {
		num = *req.NumConsecutivo
		if num <= 0 {
			errs = append(errs, "num_consecutivo debe ser un entero positivo")
		}
	}
	fecha, err := parseFecha(req.Fecha)
	if req.Fecha != "" && err != nil {
		errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
	}
	var contratoID uuid.UUID
	if req.ContratoID != "" {
		if id := parseUUIDOpcional(req.ContratoID, "contrato_id", &errs); id != nil {
			contratoID = *id
		}
	}
	estado := req.Estado
	if estado == "" {
		estado = model.EstadoNoFacturado
	}
	errs = append(errs, validarEstado(estado)...)
	errs = append(errs, validarCargo(req.CargoAdicional)...)
	var trabajadorID *uuid.UUID
	if req.TrabajadorAutorizadoID != nil {
		trabajadorID = parseUUIDOpcional(*req.TrabajadorAutorizadoID, "trabajador_autorizado_id", &errs)
	}
	ids, lineErrs := validarLineas(req.Servicios, req.Productos)
	errs = append(errs, lineErrs...)
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	contrato, err := s.contratoRepo.FindByID(ctx, contratoID)
	if err != nil {
		return nil, noEncontrado(err, ErrReferenciaNoEncontrada, "contrato "+contratoID.String())
	}
	if err := s.validarTrabajador(ctx, trabajadorID, contrato); err != nil {
		return nil, err
	}
	if _, err := s.usuarioRepo.FindByID(ctx, usuarioID); err != nil {
		return nil, noEncontrado(err, ErrReferenciaNoEncontrada, "usuario "+usuarioID.String())
	}
	if err := s.validarNumeracion(ctx, nil, num, fecha, contrato, nil); err != nil {
		return nil, err
	}

	f := &model.Factura{
		ID:                     uuid.New(),
		NumConsecutivo:         num,
		Fecha:                  fecha,
		Estado:                 estado,
		ContratoID:             contrato.ID,
		TrabajadorAutorizadoID: trabajadorID,
		UsuarioID:              usuarioID,
		CargoAdicional:         redondear(req.CargoAdicional),
		Nota:                   req.Nota,
	}
	var servicios []model.Servicio
	if req.Servicios != nil {
		servicios = construirServicios(f.ID, *req.Servicios)
	}
	var lineas []model.FacturaProducto
	if req.Productos != nil && len(*req.Productos) > 0 {
		lineas, err = s.prepararProductos(ctx, contrato, ids, *req.Productos, nil)
		if err != nil {
			return nil, err
		}
		asignarFactura(lineas, f.ID)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.validarNumeracion(ctx, tx, num, fecha, contrato, nil); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, f); err != nil {
			return err
		}
		if err := s.repo.CreateServiciosTx(tx, servicios); err != nil {
			return err
		}
		return s.escribirProductos(tx, f, contrato, lineas)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("factura_id", f.ID.String()).
		Int("num_consecutivo", num).
		Str("contrato", contrato.ClienteOProveedor).
		Int("productos", len(lineas)).
		Msg("factura creada")
	s.notificarGuardada(ctx, f.ID)
	return s.Obtener(ctx, f.ID)
}

func (s *facturaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error) {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "factura "+id.String())
	}

	if req.UsuarioID != nil {
		uid, err := uuid.Parse(*req.UsuarioID)
		if err != nil || uid != actual.UsuarioID {
			return nil, fmt.Errorf("%w: usuario_id no puede modificarse una vez creada la factura", ErrCampoInmutable)
		}
	}

	var errs []string
	num := actual.NumConsecutivo
	if req.NumConsecutivo != nil {
		num = *req.NumConsecutivo
		if num <= 0 {
			errs = append(errs, "num_consecutivo debe ser un entero positivo")
		}
	}
	fecha := actual.Fecha
	if req.Fecha != nil {
		if t, err := parseFecha(*req.Fecha); err != nil {
			errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
		} else {
			fecha = t
		}
	}
	contratoID := actual.ContratoID
	if req.ContratoID != nil {
		if cid := parseUUIDOpcional(*req.ContratoID, "contrato_id", &errs); cid != nil {
			contratoID = *cid
		} else if *req.ContratoID == "" {
			errs = append(errs, "contrato_id no puede quedar vacio")
		}
	}
	estado := actual.Estado
	if req.Estado != nil {
		estado = *req.Estado
		errs = append(errs, validarEstado(estado)...)
	}
	cargo := actual.CargoAdicional
	if req.CargoAdicional != nil {
		errs = append(errs, validarCargo(req.CargoAdicional)...)
		cargo = redondear(req.CargoAdicional)
	}
	trabajadorID := actual.TrabajadorAutorizadoID
	if req.TrabajadorAutorizadoID != nil {
		trabajadorID = parseUUIDOpcional(*req.TrabajadorAutorizadoID, "trabajador_autorizado_id", &errs)
	}
	nota := actual.Nota
	if req.Nota != nil {
		nota = req.Nota
	}

	ids, lineErrs := validarLineas(req.Servicios, req.Productos)
	errs = append(errs, lineErrs...)
	tendraServicios := len(actual.Servicios) > 0
	if req.Servicios != nil {
		tendraServicios = len(*req.Servicios) > 0
	}
	tendraProductos := len(actual.Productos) > 0
	if req.Productos != nil {
		tendraProductos = len(*req.Productos) > 0
	}
	if tendraServicios && tendraProductos && (req.Servicios == nil || req.Productos == nil) {
		errs = append(errs, msgExclusivas)
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	original := actual.Contrato
	if original == nil {
		if original, err = s.contratoRepo.FindByID(ctx, actual.ContratoID); err != nil {
			return nil, noEncontrado(err, ErrReferenciaNoEncontrada, "contrato "+actual.ContratoID.String())
		}
	}
	contrato := original
	cambiaContrato := contratoID != actual.ContratoID
	if cambiaContrato {
		if contrato, err = s.contratoRepo.FindByID(ctx, contratoID); err != nil {
			return nil, noEncontrado(err, ErrReferenciaNoEncontrada, "contrato "+contratoID.String())
		}
	}
	if req.TrabajadorAutorizadoID != nil || cambiaContrato {
		if err := s.validarTrabajador(ctx, trabajadorID, contrato); err != nil {
			return nil, err
		}
	}

	renumerar := num != actual.NumConsecutivo || !fecha.Equal(actual.Fecha) || cambiaContrato
	if renumerar {
		if err := s.validarNumeracion(ctx, nil, num, fecha, contrato, &id); err != nil {
			return nil, err
		}
	}

	// Lines are re-applied when replaced or when they must follow the invoice
	// to another contract (ledger direction and supplier entries depend on it).
	reaplicar := req.Productos != nil || (cambiaContrato && len(actual.Productos) > 0)
	var nuevas []model.FacturaProducto
	if reaplicar {
		reqs := lineasComoRequest(actual.Productos)
		if req.Productos != nil {
			reqs = *req.Productos
		} else {
			ids = idsDeLineas(actual.Productos)
		}
		if len(reqs) > 0 {
			var devuelto map[uuid.UUID]decimal.Decimal
			if original.EsCliente() {
				devuelto = cantidadesPorProducto(actual.Productos)
			}
			if nuevas, err = s.prepararProductos(ctx, contrato, ids, reqs, devuelto); err != nil {
				return nil, err
			}
			asignarFactura(nuevas, id)
		}
	}

	actualizada := &model.Factura{
		ID:                     actual.ID,
		NumConsecutivo:         num,
		Fecha:                  fecha,
		Estado:                 estado,
		ContratoID:             contrato.ID,
		TrabajadorAutorizadoID: trabajadorID,
		UsuarioID:              actual.UsuarioID,
		CargoAdicional:         cargo,
		Nota:                   nota,
		CreatedAt:              actual.CreatedAt,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, ErrNoEncontrado, "factura "+id.String())
		}
		if renumerar {
			if err := s.validarNumeracion(ctx, tx, num, fecha, contrato, &id); err != nil {
				return err
			}
		}
		if req.Servicios != nil {
			if err := s.repo.DeleteServiciosTx(tx, id); err != nil {
				return err
			}
			if err := s.repo.CreateServiciosTx(tx, construirServicios(id, *req.Servicios)); err != nil {
				return err
			}
		}
		if reaplicar {
			if err := s.reemplazarProductos(tx, actualizada, original, contrato, nuevas); err != nil {
				return err
			}
		}
		return s.repo.UpdateTx(tx, actualizada)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("factura_id", id.String()).
		Bool("lineas_reaplicadas", reaplicar).
		Msg("factura actualizada")
	s.notificarGuardada(ctx, id)
	return s.Obtener(ctx, id)
}

// Eliminar removes the invoice with everything that depends on it, returning
// stock taken by Cliente invoices and withdrawing stock brought in by
// Proveedor invoices.
func (s *facturaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, ErrNoEncontrado, "factura "+id.String())
	}
	contrato := actual.Contrato
	if contrato == nil {
		if contrato, err = s.contratoRepo.FindByID(ctx, actual.ContratoID); err != nil {
			return noEncontrado(err, ErrReferenciaNoEncontrada, "contrato "+actual.ContratoID.String())
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, ErrNoEncontrado, "factura "+id.String())
		}
		lineas, err := s.repo.FindProductosTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.inventario.Aplicar(tx, movimientosFactura(contrato, lineas, true), model.OrigenReversoFactura, &id); err != nil {
			return err
		}
		if err := s.entradaRepo.DeleteByFacturaTx(tx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteProductosTx(tx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteServiciosTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("factura_id", id.String()).Msg("factura eliminada")
	if s.eventos != nil {
		s.eventos.FacturaEliminada(ctx, id)
	}
	return nil
}

func (s *facturaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "factura "+id.String())
	}
	resp := facturaToResponse(f)
	return &resp, nil
}

func (s *facturaService) Filtrar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	filtro, err := parseFiltroFactura(filter)
	if err != nil {
		return nil, err
	}
	facturas, total, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	todas, err := s.repo.ListAll(ctx, filtro)
	if err != nil {
		return nil, err
	}

	data := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filtro.Page, filtro.Limit),
		Sumas:      SumarFacturas(todas),
	}, nil
}

func (s *facturaService) Exportar(ctx context.Context, filter dto.FacturaFilter) ([]dto.FacturaResponse, dto.SumasFacturas, error) {
	filtro, err := parseFiltroFactura(filter)
	if err != nil {
		return nil, dto.SumasFacturas{}, err
	}
	todas, err := s.repo.ListAll(ctx, filtro)
	if err != nil {
		return nil, dto.SumasFacturas{}, err
	}
	data := make([]dto.FacturaResponse, 0, len(todas))
	for i := range todas {
		data = append(data, facturaToResponse(&todas[i]))
	}
	return data, SumarFacturas(todas), nil
}

func (s *facturaService) SiguienteConsecutivo(ctx context.Context, anio int) (*dto.SiguienteConsecutivoResponse, error) {
	siguiente, err := s.numeracion.SiguienteDisponible(ctx, anio)
	if err != nil {
		return nil, err
	}
	return &dto.SiguienteConsecutivoResponse{
		Anio:                 anio,
		SiguienteConsecutivo: siguiente,
		Mensaje:              fmt.Sprintf("el siguiente numero consecutivo disponible para %d es %d", anio, siguiente),
	}, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// validarNumeracion checks numbering rules. Inside a transaction it first
// locks the numbers involved, so two writers of the same Cliente number (or of
// a number and its predecessor) re-check one after the other.
func (s *facturaService) validarNumeracion(ctx context.Context, tx *gorm.DB, num int, fecha time.Time, contrato *model.Contrato, excluir *uuid.UUID) error {
	if tx != nil && contrato.EsCliente() {
		if err := s.numeracion.Bloquear(tx, num, fecha); err != nil {
			return err
		}
	}
	if err := s.numeracion.ValidarUnico(ctx, tx, num, fecha, contrato.ID, excluir); err != nil {
		return err
	}
	return s.numeracion.ValidarOrden(ctx, tx, num, fecha, contrato.ID, excluir)
}

// validarTrabajador checks the authorized worker exists and belongs to the
// invoice's contract.
func (s *facturaService) validarTrabajador(ctx context.Context, trabajadorID *uuid.UUID, contrato *model.Contrato) error {
	if trabajadorID == nil {
		return nil
	}
	t, err := s.contratoRepo.FindTrabajadorByID(ctx, *trabajadorID)
	if err != nil {
		return noEncontrado(err, ErrReferenciaNoEncontrada, "trabajador autorizado "+trabajadorID.String())
	}
	if t.ContratoID != contrato.ID {
		return nuevaValidacion("el trabajador autorizado no pertenece al contrato de la factura")
	}
	return nil
}

// escribirProductos persists product lines, moves stock and, for Proveedor
// contracts, records the matching inventory entries.
func (s *facturaService) escribirProductos(tx *gorm.DB, f *model.Factura, contrato *model.Contrato, lineas []model.FacturaProducto) error {
	if len(lineas) == 0 {
		return nil
	}
	if err := s.repo.CreateProductosTx(tx, lineas); err != nil {
		return err
	}
	if err := s.inventario.Aplicar(tx, movimientosFactura(contrato, lineas, false), model.OrigenFactura, &f.ID); err != nil {
		return err
	}
	if contrato.EsCliente() {
		return nil
	}
	return s.entradaRepo.CreateBatchTx(tx, entradasFactura(f, lineas))
}

// reemplazarProductos undoes the stored lines under the original contract and
// applies the new ones under the current contract in one ledger call, so a
// product present on both sides only moves by the difference. The audit row
// carries OrigenActualizacionFactura to tell it apart from a create.
func (s *facturaService) reemplazarProductos(tx *gorm.DB, f *model.Factura, original, contrato *model.Contrato, nuevas []model.FacturaProducto) error {
	viejas, err := s.repo.FindProductosTx(tx, f.ID)
	if err != nil {
		return err
	}
	movs := movimientosFactura(original, viejas, true)
	movs = append(movs, movimientosFactura(contrato, nuevas, false)...)
	if err := s.inventario.Aplicar(tx, movs, model.OrigenActualizacionFactura, &f.ID); err != nil {
		return err
	}
	if err := s.entradaRepo.DeleteByFacturaTx(tx, f.ID); err != nil {
		return err
	}
	if err := s.repo.DeleteProductosTx(tx, f.ID); err != nil {
		return err
	}
	if len(nuevas) == 0 {
		return nil
	}
	if err := s.repo.CreateProductosTx(tx, nuevas); err != nil {
		return err
	}
	if contrato.EsCliente() {
		return nil
	}
	return s.entradaRepo.CreateBatchTx(tx, entradasFactura(f, nuevas))
}

func (s *facturaService) notificarGuardada(ctx context.Context, id uuid.UUID) {
	if s.eventos != nil {
		s.eventos.FacturaGuardada(ctx, id)
	}
}

func validarEstado(estado string) []string {
	switch estado {
	case model.EstadoFacturado, model.EstadoNoFacturado, model.EstadoCancelado:
		return nil
	}
	return []string{"estado debe ser Facturado, No Facturado o Cancelado"}
}

func validarCargo(cargo *decimal.Decimal) []string {
	if cargo != nil && cargo.IsNegative() {
		return []string{"cargo_adicional no puede ser negativo"}
	}
	return nil
}

// validarLineas validates whichever line payloads were supplied and the rule
// that one invoice cannot carry both kinds.
func validarLineas(servicios *[]dto.ServicioRequest, productos *[]dto.FacturaProductoRequest) ([]uuid.UUID, []string) {
	var errs []string
	var ids []uuid.UUID
	if servicios != nil && productos != nil && len(*servicios) > 0 && len(*productos) > 0 {
		errs = append(errs, msgExclusivas)
	}
	if servicios != nil {
		errs = append(errs, validarServicios(*servicios)...)
	}
	if productos != nil {
		var prodErrs []string
		ids, prodErrs = validarProductos(*productos)
		errs = append(errs, prodErrs...)
	}
	return ids, errs
}

func redondear(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

func asignarFactura(lineas []model.FacturaProducto, facturaID uuid.UUID) {
	for i := range lineas {
		lineas[i].FacturaID = facturaID
	}
}

// lineasComoRequest turns stored lines back into requests, carrying the
// captured price and cost as overrides.
func lineasComoRequest(lineas []model.FacturaProducto) []dto.FacturaProductoRequest {
	reqs := make([]dto.FacturaProductoRequest, 0, len(lineas))
	for _, l := range lineas {
		precio, costo := l.PrecioVenta, l.CostoVenta
		reqs = append(reqs, dto.FacturaProductoRequest{
			ProductoID: l.ProductoID.String(),
			Cantidad:   l.Cantidad,
			Precio:     &precio,
			Costo:      &costo,
		})
	}
	return reqs
}

func idsDeLineas(lineas []model.FacturaProducto) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lineas))
	for _, l := range lineas {
		ids = append(ids, l.ProductoID)
	}
	return ids
}

func cantidadesPorProducto(lineas []model.FacturaProducto) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(lineas))
	for _, l := range lineas {
		out[l.ProductoID] = out[l.ProductoID].Add(l.Cantidad)
	}
	return out
}

func parseFiltroFactura(filter dto.FacturaFilter) (repository.FacturaFiltro, error) {
	var errs []string
	filtro := repository.FacturaFiltro{
		ContratoID:     parseUUIDOpcional(filter.ContratoID, "contrato_id", &errs),
		TrabajadorID:   parseUUIDOpcional(filter.TrabajadorID, "trabajador_id", &errs),
		UsuarioID:      parseUUIDOpcional(filter.UsuarioID, "usuario_id", &errs),
		NumConsecutivo: filter.NumConsecutivo,
		Estado:         filter.Estado,
	}
	filtro.Page, filtro.Limit = paginaValida(filter.Page, filter.Limit)
	if filter.Estado != "" {
		errs = append(errs, validarEstado(filter.Estado)...)
	}
	var fechaErrs []string
	filtro.Desde, filtro.Hasta, fechaErrs = rangoFechas(filter.FechaDesde, filter.FechaHasta)
	errs = append(errs, fechaErrs...)
	if len(errs) > 0 {
		return filtro, &ValidacionError{Errores: errs}
	}
	return filtro, nil
}

// importeFactura is what an invoice adds to the aggregate sums: its lines
// plus the additional charge.
func importeFactura(f *model.Factura) decimal.Decimal {
	total := CalcularTotales(f).SumaGeneral
	if f.CargoAdicional != nil {
		total = total.Add(*f.CargoAdicional)
	}
	return total
}

// SumarFacturas aggregates invoices by contract role and by Facturado state.
func SumarFacturas(facturas []model.Factura) dto.SumasFacturas {
	var sumas dto.SumasFacturas
	for i := range facturas {
		f := &facturas[i]
		importe := importeFactura(f)
		sumas.SumaGeneral = sumas.SumaGeneral.Add(importe)
		if f.Contrato != nil {
			if f.Contrato.EsCliente() {
				sumas.SumaCliente = sumas.SumaCliente.Add(importe)
			} else {
				sumas.SumaProveedor = sumas.SumaProveedor.Add(importe)
			}
		}
		if f.Estado == model.EstadoFacturado {
			sumas.SumaFacturado = sumas.SumaFacturado.Add(importe)
		}
	}
	return sumas
}

func facturaToResponse(f *model.Factura) dto.FacturaResponse {
	resp := dto.FacturaResponse{
		ID:                     f.ID.String(),
		NumConsecutivo:         f.NumConsecutivo,
		Fecha:                  f.Fecha.Format(formatoFecha),
		Estado:                 f.Estado,
		ContratoID:             f.ContratoID.String(),
		TrabajadorAutorizadoID: uuidPtrString(f.TrabajadorAutorizadoID),
		UsuarioID:              f.UsuarioID.String(),
		CargoAdicional:         f.CargoAdicional,
		Nota:                   f.Nota,
		Servicios:              make([]dto.ServicioResponse, 0, len(f.Servicios)),
		Productos:              make([]dto.FacturaProductoResponse, 0, len(f.Productos)),
		Totales:                CalcularTotales(f),
	}
	if f.Contrato != nil {
		resp.ClienteOProveedor = f.Contrato.ClienteOProveedor
		resp.Entidad = f.Contrato.Entidad
	}
	for _, sv := range f.Servicios {
		resp.Servicios = append(resp.Servicios, dto.ServicioResponse{
			ID:           sv.ID.String(),
			Descripcion:  sv.Descripcion,
			Importe:      sv.Importe,
			Cantidad:     sv.Cantidad,
			UnidadMedida: sv.UnidadMedida,
		})
	}
	for _, p := range f.Productos {
		linea := dto.FacturaProductoResponse{
			ID:          p.ID.String(),
			ProductoID:  p.ProductoID.String(),
			Cantidad:    p.Cantidad,
			PrecioVenta: p.PrecioVenta,
			CostoVenta:  p.CostoVenta,
		}
		if p.Producto != nil {
			linea.Nombre = p.Producto.Nombre
		}
		resp.Productos = append(resp.Productos, linea)
	}
	return resp
}
