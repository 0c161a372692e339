package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	swagger "github.com/Bapt252/nextvision/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSwagger(t *testing.T) {
	Convey("Given the documentation routes", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("When requesting the docs page", func() {
			req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			Convey("Then the ReDoc shell is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "redoc")
			})
		})

		Convey("When requesting the OpenAPI spec", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			Convey("Then the embedded spec is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "Nextvision Matching API")
				So(rec.Body.String(), ShouldContainSubstring, "/transport/batch")
			})
		})
	})
}
