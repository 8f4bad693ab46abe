package vipscale

import (
	"context"
	"math"

	"github.com/cshum/vipscale/vips"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Version vipscale version
const Version = "0.9.0"

// Resizer processes image buffers through libvips, bound by an optional
// concurrency semaphore. Each call is stateless; calls beyond Concurrency
// fail fast with ErrTooManyRequests instead of queueing.
type Resizer struct {
	Logger          *zap.Logger
	Debug           bool
	Concurrency     int64
	VipsConcurrency int
	MaxCacheFiles   int
	MaxCacheMem     int
	MaxCacheSize    int
	DefaultQuality  int

	sema *semaphore.Weighted
}

// New creates a Resizer
func New(options ...Option) *Resizer {
	r := &Resizer{
		Logger:          zap.NewNop(),
		VipsConcurrency: 1,
		DefaultQuality:  80,
	}
	for _, option := range options {
		option(r)
	}
	if r.Concurrency > 0 {
		r.sema = semaphore.NewWeighted(r.Concurrency)
	}
	return r
}

// Startup initializes the libvips runtime context, wiring the glib log
// output into the zap logger. Called once at process start.
func (r *Resizer) Startup(_ context.Context) error {
	verbosity := vips.LogLevelError
	if r.Debug {
		verbosity = vips.LogLevelDebug
	}
	logger := r.Logger
	vips.SetLogging(func(domain string, level vips.LogLevel, message string) {
		switch {
		case level <= vips.LogLevelError:
			logger.Error(domain, zap.String("log", message))
		case level <= vips.LogLevelWarning:
			logger.Warn(domain, zap.String("log", message))
		default:
			logger.Debug(domain, zap.String("log", message))
		}
	}, verbosity)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: r.VipsConcurrency,
		MaxCacheFiles:    r.MaxCacheFiles,
		MaxCacheMem:      r.MaxCacheMem,
		MaxCacheSize:     r.MaxCacheSize,
		ReportLeaks:      r.Debug,
	})
	return nil
}

// Shutdown the libvips runtime context
func (r *Resizer) Shutdown(_ context.Context) error {
	vips.Shutdown()
	return nil
}

// Resize decodes buf, applies the transform described by o and encodes the
// result as JPEG. JPEG and PNG buffers decode natively with the sequential
// access hint; BMP falls back to a Go decode.
func (r *Resizer) Resize(ctx context.Context, buf []byte, o Options) ([]byte, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	format := vips.DetermineImageType(buf)
	if format == vips.ImageTypeUnknown {
		return nil, ErrUnsupportedFormat
	}
	img, err := vips.LoadImageFromBuffer(buf)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return r.transform(img, o)
}

// ResizeFile decodes the file through the generic magick loader and applies
// the same transform as Resize. Shrink-on-load does not apply on this path.
func (r *Resizer) ResizeFile(ctx context.Context, file string, o Options) ([]byte, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	img, err := vips.LoadImageFromFile(file)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return r.transform(img, o)
}

// acquire claims a semaphore slot without queueing; a saturated Resizer
// fails fast with ErrTooManyRequests
func (r *Resizer) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.sema != nil && !r.sema.TryAcquire(1) {
		return ErrTooManyRequests
	}
	return nil
}

func (r *Resizer) release() {
	if r.sema != nil {
		r.sema.Release(1)
	}
}

// transform runs the scaling pipeline on a loaded image
func (r *Resizer) transform(img *vips.Image, o Options) ([]byte, error) {
	useShrinkOnLoad := img.Format() == vips.ImageTypeJPEG

	if crop := clampCrop(img.Width(), img.Height(), o.CropRect); crop != nil {
		if err := img.ExtractArea(crop.Left, crop.Top, crop.Width, crop.Height); err != nil {
			return nil, err
		}
		// cropped already, a shrink-on-load reload would discard the crop
		useShrinkOnLoad = false
	}

	inWidth := img.Width()
	inHeight := img.Height()

	factor := scalingFactor(inWidth, inHeight, &o)
	shrink := int(math.Floor(factor))
	if shrink < 1 {
		shrink = 1
	}
	residual := float64(shrink) / factor

	// Do not enlarge the output if the input width or height are already
	// less than the required dimensions
	if !o.Enlarge && inWidth < o.Width && inHeight < o.Height {
		factor = 1
		shrink = 1
		residual = 0
		o.Width = inWidth
		o.Height = inHeight
	}

	if shrinkOnLoad := shrinkOnLoadFactor(shrink); useShrinkOnLoad && shrinkOnLoad > 1 {
		// Recalculate integral shrink and residual against the load-time factor
		factor = math.Max(factor/float64(shrinkOnLoad), 1.0)
		shrink = int(math.Floor(factor))
		residual = float64(shrink) / factor

		if err := img.ReloadShrink(shrinkOnLoad); err != nil {
			return nil, err
		}

		r.Logger.Debug("shrink-on-load",
			zap.Int("factor", shrinkOnLoad),
			zap.Int("width", img.Width()),
			zap.Int("height", img.Height()))
	}

	if shrink > 1 {
		if err := img.Shrink(float64(shrink), float64(shrink)); err != nil {
			return nil, err
		}
		// Recalculate residual against dimensions of required vs shrunk image
		residualx := float64(o.Width) / float64(img.Width())
		residualy := float64(o.Height) / float64(img.Height())
		residual = math.Min(residualx, residualy)
	}

	if residual != 0 && residual != 1 {
		interpolate, err := vips.NewInterpolate(o.Interpolator.String())
		if err != nil {
			return nil, err
		}
		defer interpolate.Close()

		if err := img.Affine(residual, 0, 0, residual, interpolate); err != nil {
			return nil, err
		}
	}

	if o.Crop && (img.Width() > o.Width || img.Height() > o.Height) {
		width := minInt(img.Width(), o.Width)
		height := minInt(img.Height(), o.Height)
		left, top := gravityOffset(img.Width(), img.Height(), width, height, o.Gravity)
		if err := img.ExtractArea(left, top, width, height); err != nil {
			return nil, err
		}
	}

	// Switch to sRGB before flattening; flattening in other colour spaces
	// does not bode well in most cases. Best effort, sources with no known
	// colourspace route keep their interpretation.
	if img.ColorSpace() != vips.InterpretationSRGB {
		if err := img.ToColorSpace(vips.InterpretationSRGB); err != nil {
			r.Logger.Debug("colourspace", zap.Error(err))
		}
	}

	if img.HasAlpha() && img.ColorSpace() != vips.InterpretationCMYK {
		if err := img.FlattenWhite(); err != nil {
			return nil, err
		}
	}

	if o.BlurSigma > 0 {
		if err := img.GaussianBlur(o.BlurSigma); err != nil {
			return nil, err
		}
	}

	if o.Embed && (img.Width() < o.Width || img.Height() < o.Height) {
		left := (o.Width - img.Width()) / 2
		top := (o.Height - img.Height()) / 2
		if err := img.Embed(left, top, o.Width, o.Height, o.Extend); err != nil {
			return nil, err
		}
	}

	quality := o.Quality
	if quality == 0 {
		quality = r.DefaultQuality
	}
	out, _, err := img.ExportJpeg(&vips.JpegExportParams{
		StripMetadata: !o.KeepMetadata,
		Quality:       quality,
		Interlace:     o.Interlace,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
