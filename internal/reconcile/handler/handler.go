// Package handler exposes the reconciliation core over HTTP: multipart
// uploads in, the comparison result bundle out.
package handler

import (
	"encoding/csv"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"catalog-recon/internal/catalog"
	"catalog-recon/internal/config"
	"catalog-recon/internal/fileio"
	"catalog-recon/internal/profile"
)

type skuLists struct {
	OnlyInPrimary           []string `json:"onlyInPrimary"`
	OnlyInStorefront        []string `json:"onlyInStorefront"`
	StockMismatchPrimary    []string `json:"stockMismatchPrimary"`
	StockMismatchStorefront []string `json:"stockMismatchStorefront"`
	InternalOnlyCandidates  []string `json:"internalOnlyCandidates,omitempty"`
}

type sourceStats struct {
	Rows          int `json:"rows"`
	Products      int `json:"products"`
	DuplicateSKUs int `json:"duplicateSkus"`
}

type reconcileResponse struct {
	catalog.Results
	RepairedRows int                    `json:"repairedRows"`
	SKUs         skuLists               `json:"skus"`
	Stats        map[string]sourceStats `json:"stats"`
}

// Reconcile handles POST /reconcile: files "primary" and "storefront"
// (required) plus "supplier" (optional), with form fields for header
// rows, column-mapping overrides, the supplier internal name, excluded
// SKUs and an optional supplier transform profile.
func Reconcile(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(logger, r)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}

		primaryTab, err := readUpload(r, "primary")
		if err != nil {
			writeError(w, http.StatusBadRequest, "primary: "+err.Error())
			return
		}
		storefrontTab, err := readUpload(r, "storefront")
		if err != nil {
			writeError(w, http.StatusBadRequest, "storefront: "+err.Error())
			return
		}

		storefrontTab, repaired := catalog.RepairShiftedRows(storefrontTab)
		if repaired > 0 {
			log.Warn().Int("repaired", repaired).Msg("storefront rows had shifted columns")
		}

		primary := catalog.BuildGroups(primaryTab, catalog.SourcePrimary, primaryMappingFromForm(r))
		storefront := catalog.BuildGroups(storefrontTab, catalog.SourceStorefront, storefrontMappingFromForm(r))

		var supplier *catalog.ProductMap
		supplierTab, ok, err := readOptionalUpload(r, "supplier")
		if err != nil {
			writeError(w, http.StatusBadRequest, "supplier: "+err.Error())
			return
		}
		if ok {
			if rawProfile := r.FormValue("supplier_profile"); rawProfile != "" {
				p, err := profile.Parse([]byte(rawProfile))
				if err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				supplierTab, err = p.BuildRenamedCopy(supplierTab, supplierName(r, cfg))
				if err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
			}
			supplier, err = catalog.BuildSupplierGroups(supplierTab)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		res := catalog.Reconcile(primary, storefront, supplier, catalog.Options{
			SupplierName:           supplierName(r, cfg),
			ExcludedNormalizedKeys: parseExcludedSKUs(r.FormValue("exclude_skus")),
		})

		resp := reconcileResponse{
			Results:      res,
			RepairedRows: repaired,
			SKUs: skuLists{
				OnlyInPrimary:    catalog.UniqueSortedSKUs(res.OnlyInPrimary),
				OnlyInStorefront: catalog.UniqueSortedSKUs(res.OnlyInStorefront),
			},
			Stats: map[string]sourceStats{
				"primary":    statsFor(primaryTab, primary),
				"storefront": statsFor(storefrontTab, storefront),
			},
		}
		// side arguments are constants, the error path is misuse only
		resp.SKUs.StockMismatchPrimary, _ = catalog.UniqueSortedSKUsFromMismatchSide(res.StockMismatches, catalog.SourcePrimary)
		resp.SKUs.StockMismatchStorefront, _ = catalog.UniqueSortedSKUsFromMismatchSide(res.StockMismatches, catalog.SourceStorefront)
		if res.InternalOnlyCandidates != nil {
			resp.SKUs.InternalOnlyCandidates = catalog.UniqueSortedSKUs(res.InternalOnlyCandidates)
		}
		if supplier != nil {
			resp.Stats["supplier"] = statsFor(supplierTab, supplier)
		}

		writeJSON(w, http.StatusOK, resp)

		log.Info().
			Int("primary_rows", len(primaryTab.Rows)).
			Int("storefront_rows", len(storefrontTab.Rows)).
			Int("repaired", repaired).
			Bool("supplier", supplier != nil).
			Dur("elapsed", time.Since(start)).
			Msg("reconcile done")
	}
}

// TransformSupplier handles POST /supplier/transform: a supplier file
// plus a profile produce a primary-format CSV download.
func TransformSupplier(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}

		tab, err := readUpload(r, "supplier")
		if err != nil {
			writeError(w, http.StatusBadRequest, "supplier: "+err.Error())
			return
		}
		p, err := profile.Parse([]byte(r.FormValue("profile")))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err := p.BuildRenamedCopy(tab, supplierName(r, cfg))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="supplier-transformed.csv"`)
		cw := csv.NewWriter(w)
		cw.Comma = ';'
		_ = cw.Write(out.Headers)
		for _, row := range out.Rows {
			rec := make([]string, len(out.Headers))
			for i, h := range out.Headers {
				rec[i] = row[h]
			}
			_ = cw.Write(rec)
		}
		cw.Flush()

		log.Info().Int("rows", len(out.Rows)).Msg("supplier transform done")
	}
}

func requestLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func supplierName(r *http.Request, cfg config.Config) string {
	return firstNonEmpty(r.FormValue("supplier_name"), cfg.DefaultSupplier)
}

func readUpload(r *http.Request, field string) (catalog.Table, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return catalog.Table{}, err
	}
	defer f.Close()
	return fileio.ReadAnyTable(f, hdr.Filename, atoi(r.FormValue(field+"_header_row"), 1))
}

func readOptionalUpload(r *http.Request, field string) (catalog.Table, bool, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return catalog.Table{}, false, nil
	}
	if err != nil {
		return catalog.Table{}, false, err
	}
	defer f.Close()
	tab, err := fileio.ReadAnyTable(f, hdr.Filename, atoi(r.FormValue(field+"_header_row"), 1))
	if err != nil {
		return catalog.Table{}, false, err
	}
	return tab, true, nil
}

func statsFor(t catalog.Table, m *catalog.ProductMap) sourceStats {
	return sourceStats{
		Rows:          len(t.Rows),
		Products:      catalog.CountProducts(m),
		DuplicateSKUs: catalog.DuplicateSKUs(m).Len(),
	}
}
