package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crediax/crediax/internal/ledger"
	"github.com/crediax/crediax/internal/logger"
	"github.com/crediax/crediax/internal/model"
	"github.com/crediax/crediax/internal/sheet"
)

// UploadField is the multipart field that carries the workbook.
const UploadField = "archivoR"

// multipartMemory is how much of an upload is held in memory before
// spilling to a temp file.
const multipartMemory = 32 << 20

const msgNoData = "No hay datos cargados en el servidor."

// Handler serves the ledger endpoints.
type Handler struct {
	importer       *ledger.Importer
	maxUploadBytes int64
}

// NewHandler creates a Handler. Uploads larger than maxUploadBytes are rejected.
func NewHandler(importer *ledger.Importer, maxUploadBytes int64) *Handler {
	return &Handler{importer: importer, maxUploadBytes: maxUploadBytes}
}

type rootResponse struct {
	OK         bool       `json:"ok"`
	Message    string     `json:"message"`
	LastUpdate *time.Time `json:"lastUpdate"`
	TotalRows  int        `json:"totalRows"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	resp := rootResponse{OK: true, Message: "Servidor CrediaX funcionando"}
	if l, err := h.importer.Store().Current(); err == nil {
		resp.LastUpdate = &l.ImportedAt
		resp.TotalRows = l.Report.TotalRows
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	OK           bool                `json:"ok"`
	Loaded       bool                `json:"loaded"`
	ImportID     string              `json:"importId,omitempty"`
	Source       string              `json:"source,omitempty"`
	Sheet        string              `json:"sheet,omitempty"`
	LastUpdate   *time.Time          `json:"lastUpdate"`
	TotalRows    int                 `json:"totalRows"`
	Customers    int                 `json:"customers"`
	Transactions int                 `json:"transactions"`
	Report       *model.ImportReport `json:"report,omitempty"`
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	l, err := h.importer.Store().Current()
	if err != nil {
		writeJSON(w, http.StatusOK, statusResponse{OK: true})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		OK:           true,
		Loaded:       true,
		ImportID:     l.ImportID,
		Source:       l.Source,
		Sheet:        l.Sheet,
		LastUpdate:   &l.ImportedAt,
		TotalRows:    l.Report.TotalRows,
		Customers:    len(l.Customers),
		Transactions: l.TransactionCount(),
		Report:       &l.Report,
	})
}

type uploadResponse struct {
	OK           bool               `json:"ok"`
	Message      string             `json:"message"`
	ImportID     string             `json:"importId"`
	Sheet        string             `json:"sheet"`
	Rows         int                `json:"rows"`
	Customers    int                `json:"customers"`
	Transactions int                `json:"transactions"`
	LastUpdate   time.Time          `json:"lastUpdate"`
	Report       model.ImportReport `json:"report"`
}

// Upload handles POST /api/upload-database.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if r.ContentLength > h.maxUploadBytes {
		log.Warn().Int64("content_length", r.ContentLength).Int64("limit", h.maxUploadBytes).Msg("upload too large")
		writeError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Int64("limit", h.maxUploadBytes).Msg("upload too large")
			writeError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		log.Warn().Err(err).Msg("failed to parse multipart form")
		writeError(w, http.StatusBadRequest, "No se envió archivo.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		log.Warn().Err(err).Msg("upload without file")
		writeError(w, http.StatusBadRequest, "No se envió archivo.")
		return
	}
	defer file.Close()

	log.Info().
		Str("filename", header.Filename).
		Int64("size_bytes", header.Size).
		Str("content_type", header.Header.Get("Content-Type")).
		Msg("file received")

	l, err := h.importer.Import(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrNoSheet):
			writeError(w, http.StatusBadRequest, "No se pudo encontrar ninguna hoja en el archivo.")
		case errors.Is(err, sheet.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, "Formato de archivo no soportado. Usa .xlsx, .xlsm, .xls o .csv.")
		default:
			log.Error().Err(err).Str("filename", header.Filename).Msg("failed to process upload")
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Message: "Error procesando el archivo en el servidor.",
				Error:   err.Error(),
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		OK:           true,
		Message:      "Database subido y procesado correctamente en el servidor.",
		ImportID:     l.ImportID,
		Sheet:        l.Sheet,
		Rows:         l.Report.TotalRows,
		Customers:    len(l.Customers),
		Transactions: l.TransactionCount(),
		LastUpdate:   l.ImportedAt,
		Report:       l.Report,
	})
}

type customersResponse struct {
	OK         bool             `json:"ok"`
	Total      int              `json:"total"`
	Data       []model.Customer `json:"data"`
	LastUpdate time.Time        `json:"lastUpdate"`
}

// ListCustomers handles GET /api/clientes?q=.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	l, ok := h.current(w)
	if !ok {
		return
	}
	data := ledger.ListCustomers(l, r.URL.Query().Get("q"))
	if data == nil {
		data = []model.Customer{}
	}
	writeJSON(w, http.StatusOK, customersResponse{OK: true, Total: len(data), Data: data, LastUpdate: l.ImportedAt})
}

type customerResponse struct {
	OK   bool           `json:"ok"`
	Data model.Customer `json:"data"`
}

// GetCustomer handles GET /api/clientes/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	l, ok := h.current(w)
	if !ok {
		return
	}
	c, found := ledger.FindCustomer(l, chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "Cliente no encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{OK: true, Data: c})
}

type historyResponse struct {
	OK         bool          `json:"ok"`
	CustomerID string        `json:"customerId"`
	Total      int           `json:"total"`
	Data       model.History `json:"data"`
	LastUpdate time.Time     `json:"lastUpdate"`
}

// History handles GET /api/clientes/{id}/historial.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	l, ok := h.current(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	hist := ledger.HistoryOf(l, id)
	writeJSON(w, http.StatusOK, historyResponse{OK: true, CustomerID: id, Total: len(hist), Data: hist, LastUpdate: l.ImportedAt})
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("El archivo supera el tamaño máximo de %d bytes.", h.maxUploadBytes)
}

// current writes the no-data response and returns false when nothing has
// been imported.
func (h *Handler) current(w http.ResponseWriter) (*model.Ledger, bool) {
	l, err := h.importer.Store().Current()
	if err != nil {
		writeError(w, http.StatusNotFound, msgNoData)
		return nil, false
	}
	return l, true
}
