package app

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	errorsi18n "github.com/louisbranch/zitie/internal/platform/errors/i18n"
	"github.com/louisbranch/zitie/internal/services/worksheet/i18nhttp"
	"golang.org/x/text/message"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, setCookie := i18nhttp.ResolveTag(r)
	if setCookie {
		i18nhttp.SetLanguageCookie(w, tag)
	}
	return i18nhttp.Printer(tag), tag.String()
}

// publicMessage renders the user-facing message for err in lang.
func publicMessage(lang string, err error) string {
	return errorsi18n.GetCatalog(lang).Format(string(apperrors.CodeOf(err)), apperrors.MetadataOf(err))
}

func errorStatus(err error) int {
	return apperrors.CodeOf(err).HTTPStatus()
}

func logUnexpected(r *http.Request, err error) {
	if errorStatus(err) >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode json response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	logUnexpected(r, err)
	_, lang := localizer(w, r)
	writeJSON(w, errorStatus(err), map[string]apiError{
		"error": {
			Code:    string(apperrors.CodeOf(err)),
			Message: publicMessage(lang, err),
		},
	})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
