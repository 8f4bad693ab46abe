package vipscale

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cshum/vipscale/vips"
	"go.uber.org/zap"
)

// MaxBodySize is the request body read limit of ServeHTTP
const MaxBodySize = 100 << 20

// ServeHTTP implements http.Handler. POST an image body with transform
// query params, receive the JPEG result.
func (r *Resizer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	buf, err := io.ReadAll(io.LimitReader(req.Body, MaxBodySize))
	if err != nil || len(buf) == 0 {
		writeError(w, ErrInvalid)
		return
	}
	o := ParseOptions(req.URL.Query())
	out, err := r.Resize(req.Context(), buf, o)
	if err != nil {
		e := WrapError(err)
		r.Logger.Warn("resize", zap.Error(err), zap.Int("status", e.Code))
		writeError(w, e)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

// ParseOptions extracts resize Options from URL query params
func ParseOptions(query url.Values) (o Options) {
	o.Width, _ = strconv.Atoi(query.Get("width"))
	o.Height, _ = strconv.Atoi(query.Get("height"))
	o.Quality, _ = strconv.Atoi(query.Get("quality"))
	o.BlurSigma, _ = strconv.ParseFloat(query.Get("blur"), 64)
	o.Crop = queryBool(query, "crop")
	o.Enlarge = queryBool(query, "enlarge")
	o.Embed = queryBool(query, "embed")
	o.Interlace = queryBool(query, "interlace")
	o.KeepMetadata = queryBool(query, "keep_metadata")
	o.Gravity = parseGravity(query.Get("gravity"))
	o.Interpolator = parseInterpolator(query.Get("interpolator"))
	o.Extend = parseExtend(query.Get("extend"))
	o.CropRect = parseCropRect(query.Get("crop_rect"))
	return
}

func queryBool(query url.Values, name string) bool {
	switch strings.ToLower(query.Get(name)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseGravity(val string) Gravity {
	var g Gravity
	for _, part := range strings.Split(strings.ToLower(val), ",") {
		switch strings.TrimSpace(part) {
		case "centre", "center":
			g |= Centre
		case "north":
			g |= North
		case "east":
			g |= East
		case "south":
			g |= South
		case "west":
			g |= West
		}
	}
	if g == 0 {
		g = Centre
	}
	return g
}

func parseInterpolator(val string) Interpolator {
	switch strings.ToLower(val) {
	case vips.KernelBilinear:
		return Bilinear
	case vips.KernelNohalo:
		return Nohalo
	}
	return Bicubic
}

func parseExtend(val string) vips.Extend {
	switch strings.ToLower(val) {
	case "copy":
		return vips.ExtendCopy
	case "repeat":
		return vips.ExtendRepeat
	case "mirror":
		return vips.ExtendMirror
	case "white":
		return vips.ExtendWhite
	case "background":
		return vips.ExtendBackground
	}
	return vips.ExtendBlack
}

// parseCropRect parses "left,top,width,height"
func parseCropRect(val string) *CropRect {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	if len(parts) != 4 {
		return nil
	}
	nums := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	return &CropRect{Left: nums[0], Top: nums[1], Width: nums[2], Height: nums[3]}
}

func writeError(w http.ResponseWriter, e Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	buf, _ := json.Marshal(e)
	_, _ = w.Write(buf)
}
