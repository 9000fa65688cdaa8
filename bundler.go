package pagegrade

// Bundler identifies the build tool or framework that produced a page's assets.
type Bundler string

// Recognized bundlers.
const (
	BundlerUnknown Bundler = ""
	BundlerNext    Bundler = "next"
	BundlerNuxt    Bundler = "nuxt"
	BundlerGatsby  Bundler = "gatsby"
	BundlerAngular Bundler = "angular"
	BundlerVite    Bundler = "vite"
	BundlerCRA     Bundler = "create-react-app"
	BundlerWebpack Bundler = "webpack"
)

// BundlerDetector identifies the bundler from HTML.
type BundlerDetector interface {
	// Detect returns BundlerUnknown if the bundler cannot be determined.
	Detect(html string) Bundler
}
