package briefs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brief_responses/internal/briefs"
	"brief_responses/internal/content"
	"brief_responses/internal/http-server/middleware/auth"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
	"brief_responses/internal/storage/dataapi"
)

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
}

type Flasher interface {
	Flash(w http.ResponseWriter, r *http.Request, category, message string) error
}

type ManifestProvider interface {
	Manifest(framework, name string) (*content.Manifest, error)
}

// Env is what every page handler needs besides its storage.
type Env struct {
	Pages     Renderer
	Flashes   Flasher
	Manifests ManifestProvider
	Paths     Paths
}

type BriefGetter interface {
	GetBrief(ctx context.Context, briefID int) (brief.Brief, error)
}

type EligibilityChecker interface {
	IsSupplierEligibleForBrief(ctx context.Context, supplierID, briefID int) (bool, error)
	FindServices(ctx context.Context, filter dataapi.ServiceFilter) ([]brief.Service, error)
}

type FrameworkGetter interface {
	GetFramework(ctx context.Context, slug string) (brief.Framework, error)
}

type ResponseGetter interface {
	GetBriefResponse(ctx context.Context, responseID int) (brief.Response, error)
}

type ResponseFinder interface {
	FindBriefResponses(ctx context.Context, filter dataapi.ResponseFilter) ([]brief.Response, error)
}

func urlInt(r *http.Request, key string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("bad %s %q: %w", key, chi.URLParam(r, key), errors.ErrNotFound)
	}
	return v, nil
}

func currentUser(r *http.Request) (user.User, error) {
	u, ok := auth.User(r)
	if !ok {
		return user.User{}, fmt.Errorf("no supplier user on request")
	}
	return u, nil
}

// getBrief fetches a brief, treating one outside the allowed statuses as
// missing.
func getBrief(ctx context.Context, storage BriefGetter, briefID int, allowed []brief.Status) (brief.Brief, error) {
	b, err := storage.GetBrief(ctx, briefID)
	if err != nil {
		return brief.Brief{}, err
	}
	if len(allowed) > 0 && !brief.StatusIn(b.Status, allowed) {
		return brief.Brief{}, fmt.Errorf("brief %d is %s: %w", b.ID, b.Status, errors.ErrNotFound)
	}
	return b, nil
}

// getOwnResponse fetches a response, treating one that belongs to another
// brief or supplier as missing.
func getOwnResponse(ctx context.Context, storage ResponseGetter, b brief.Brief, u user.User, responseID int) (brief.Response, error) {
	resp, err := storage.GetBriefResponse(ctx, responseID)
	if err != nil {
		return brief.Response{}, err
	}
	if resp.BriefID != b.ID || resp.SupplierID != u.SupplierID() {
		return brief.Response{}, fmt.Errorf("brief response %d is not for brief %d and supplier %d: %w",
			resp.ID, b.ID, u.SupplierID(), errors.ErrNotFound)
	}
	return resp, nil
}

// frameworkLot returns the brief's lot when its framework still allows
// answers to be edited.
func frameworkLot(ctx context.Context, storage FrameworkGetter, b brief.Brief) (brief.Framework, brief.Lot, error) {
	fw, err := storage.GetFramework(ctx, b.FrameworkSlug)
	if err != nil {
		return brief.Framework{}, brief.Lot{}, err
	}
	lot, ok := briefs.FrameworkEditable(fw, b.LotSlug)
	if !ok {
		return brief.Framework{}, brief.Lot{}, fmt.Errorf("framework %s is %s: %w", fw.Slug, fw.Status, errors.ErrNotFound)
	}
	return fw, lot, nil
}

type notEligiblePage struct {
	ClarificationQuestion bool
	FrameworkName         string
	Lot                   string
	Reason                string
	DataReasonSlug        string
}

// checkEligible renders the not eligible page and returns false when the
// supplier cannot apply to b.
func checkEligible(w http.ResponseWriter, r *http.Request, log *slog.Logger, env Env, storage EligibilityChecker, u user.User, b brief.Brief, clarification bool) bool {
	ctx := r.Context()

	eligible, err := storage.IsSupplierEligibleForBrief(ctx, u.SupplierID(), b.ID)
	if err != nil {
		fail(w, r, log, env, err)
		return false
	}
	if eligible {
		return true
	}

	reason, err := briefs.IneligibilityReason(ctx, storage, u.SupplierID(), b)
	if err != nil {
		fail(w, r, log, env, err)
		return false
	}

	log.Info("supplier is not eligible for brief", slog.Int("brief_id", b.ID), slog.String("reason", reason.Reason))

	env.Pages.Render(w, r, http.StatusForbidden, view.PageNotEligible, "Not eligible for opportunity", notEligiblePage{
		ClarificationQuestion: clarification,
		FrameworkName:         b.FrameworkName,
		Lot:                   b.LotSlug,
		Reason:                reason.Reason,
		DataReasonSlug:        reason.DataReasonSlug,
	})
	return false
}

// fail renders the error page matching err.
func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, env Env, err error) {
	status := errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Debug("request refused", sl.Err(err), slog.Int("status", status))
	}
	env.Pages.Error(w, r, status)
}

func flash(w http.ResponseWriter, r *http.Request, log *slog.Logger, env Env, category, message string) {
	if err := env.Flashes.Flash(w, r, category, message); err != nil {
		log.Error("failed to save flash message", sl.Err(err))
	}
}
