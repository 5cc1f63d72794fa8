package device

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
)

// stubPrompter answers from fixed values and counts calls.
type stubPrompter struct {
	answer   string
	confirm  bool
	err      error
	asks     int
	confirms int
}

func (s *stubPrompter) Ask(context.Context, string) (string, error) {
	s.asks++
	return s.answer, s.err
}

func (s *stubPrompter) Confirm(context.Context, string) (bool, error) {
	s.confirms++
	return s.confirm, s.err
}

func TestPolicyPermissionsStaticPolicies(t *testing.T) {
	prompt := &stubPrompter{}
	perms := NewPermissions(map[Permission]string{
		PermissionCamera:   "Granted",
		PermissionLocation: PolicyDenied,
	}, prompt)

	if st, _ := perms.Request(context.Background(), PermissionCamera); st != StatusGranted {
		t.Fatalf("camera: expected granted, got %s", st)
	}
	if st, _ := perms.Request(context.Background(), PermissionLocation); st != StatusDenied {
		t.Fatalf("location: expected denied, got %s", st)
	}
	if prompt.confirms != 0 {
		t.Fatalf("static policies must not prompt")
	}
}

func TestPolicyPermissionsAskRemembersGrant(t *testing.T) {
	prompt := &stubPrompter{confirm: true}
	perms := NewPermissions(map[Permission]string{PermissionCamera: PolicyAsk}, prompt)

	for i := 0; i < 2; i++ {
		st, err := perms.Request(context.Background(), PermissionCamera)
		if err != nil || !st.Granted() {
			t.Fatalf("expected grant, got %s err=%v", st, err)
		}
	}
	if prompt.confirms != 1 {
		t.Fatalf("expected a single prompt, got %d", prompt.confirms)
	}
}

func TestPolicyPermissionsAskDenialIsNotRemembered(t *testing.T) {
	prompt := &stubPrompter{confirm: false}
	perms := NewPermissions(nil, prompt)

	for i := 0; i < 2; i++ {
		if st, _ := perms.Request(context.Background(), PermissionLocation); st != StatusDenied {
			t.Fatalf("expected denied, got %s", st)
		}
	}
	if prompt.confirms != 2 {
		t.Fatalf("expected to ask again after a denial, got %d prompts", prompt.confirms)
	}
}

func TestPolicyPermissionsPromptError(t *testing.T) {
	perms := NewPermissions(nil, &stubPrompter{err: errors.New("eof")})
	st, err := perms.Request(context.Background(), PermissionCamera)
	if err == nil || st.Granted() {
		t.Fatalf("expected error and no grant, got %s err=%v", st, err)
	}
}

func TestPolicyPermissionsUnknownPolicy(t *testing.T) {
	perms := NewPermissions(map[Permission]string{PermissionCamera: "sometimes"}, nil)
	if _, err := perms.Request(context.Background(), PermissionCamera); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeJPEGDownscalesKeepingAspect(t *testing.T) {
	out, err := EncodeJPEG(pngBytes(t, 400, 200), 100, 50)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncodeJPEGKeepsSmallImages(t *testing.T) {
	out, err := EncodeJPEG(pngBytes(t, 20, 10), 100, 50)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Fatalf("expected 20x10, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestEncodeJPEGRejectsGarbage(t *testing.T) {
	if _, err := EncodeJPEG([]byte("not an image"), 100, 50); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestApplyOrientationRotatesClockwise(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, marker)

	out := applyOrientation(src, 6)
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("expected 2x3 after rotation, got %dx%d", b.Dx(), b.Dy())
	}
	if got := color.RGBAModel.Convert(out.At(1, 0)); got != marker {
		t.Fatalf("top-left pixel should move to top-right, got %v", got)
	}
	if applyOrientation(src, 1) != image.Image(src) {
		t.Fatalf("orientation 1 must return the input unchanged")
	}
}

func TestFileCameraCaptureCancelled(t *testing.T) {
	cam := NewFileCamera(nil, &stubPrompter{answer: "  "}, 100, 50)
	shot, err := cam.Capture(context.Background())
	if err != nil || !shot.Canceled {
		t.Fatalf("expected cancelled shot, got %+v err=%v", shot, err)
	}
}

func TestFileCameraCaptureEncodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leak.png")
	if err := os.WriteFile(path, pngBytes(t, 64, 64), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cam := NewFileCamera(nil, &stubPrompter{answer: path}, 32, 50)
	shot, err := cam.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if shot.Canceled || shot.Base64 == "" {
		t.Fatalf("expected image data, got %+v", shot)
	}
	raw, err := base64.StdEncoding.DecodeString(shot.Base64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(raw)); err != nil {
		t.Fatalf("captured data is not jpeg: %v", err)
	}
}

func TestFileCameraCaptureMissingFile(t *testing.T) {
	cam := NewFileCamera(nil, &stubPrompter{answer: "/does/not/exist.jpg"}, 32, 50)
	if _, err := cam.Capture(context.Background()); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestFileCameraPermissionWithoutResolver(t *testing.T) {
	cam := NewFileCamera(nil, nil, 32, 50)
	if st, _ := cam.RequestPermission(context.Background()); st.Granted() {
		t.Fatalf("camera without resolver must not be granted")
	}
}

func TestStaticLocator(t *testing.T) {
	perms := NewPermissions(map[Permission]string{PermissionLocation: PolicyGranted}, nil)
	loc := NewStaticLocator(perms, &domain.Coordinates{Latitude: -22.81384, Longitude: -47.06323})

	st, err := loc.RequestForegroundPermission(context.Background())
	if err != nil || !st.Granted() {
		t.Fatalf("expected grant, got %s err=%v", st, err)
	}
	fix, err := loc.CurrentPosition(context.Background())
	if err != nil || fix.Latitude != -22.81384 {
		t.Fatalf("unexpected fix %+v err=%v", fix, err)
	}

	bad := NewStaticLocator(perms, &domain.Coordinates{Latitude: 123, Longitude: 0})
	if _, err := bad.CurrentPosition(context.Background()); err == nil {
		t.Fatalf("expected invalid fix error")
	}
}

func TestStaticLocatorWithoutFix(t *testing.T) {
	perms := NewPermissions(map[Permission]string{PermissionLocation: PolicyGranted}, nil)
	loc := NewStaticLocator(perms, nil)

	fix, err := loc.CurrentPosition(context.Background())
	if !errors.Is(err, ErrNoFix) {
		t.Fatalf("expected ErrNoFix, got fix=%+v err=%v", fix, err)
	}
}

func TestHTTPLocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ip":"10.0.0.1","latitude":-23.55052,"longitude":-46.63331}`))
	}))
	defer srv.Close()

	loc := NewHTTPLocator(nil, srv.URL, time.Second)
	fix, err := loc.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("CurrentPosition: %v", err)
	}
	if fix.Latitude != -23.55052 || fix.Longitude != -46.63331 {
		t.Fatalf("unexpected fix %+v", fix)
	}
}

func TestHTTPLocatorErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"missing coordinates": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error":true}`))
		},
		"out of range": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"latitude":10,"longitude":200}`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			loc := NewHTTPLocator(nil, srv.URL, time.Second)
			if _, err := loc.CurrentPosition(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
