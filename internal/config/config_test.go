package config

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

const sampleJSON = `{
  // services are listed in manifest order
  "debug": true,
  "config": {"url_prefix": "api/v1", "registry_path": "/registry"},
  "services": {
    "zeta":  {"enabled": true, "service": "app.Zeta", "config": {"security": "private", "caching": "local"}},
    "alpha": {"enabled": false, "service": "app.Alpha"},
    "mid":   {"enabled": true, "service": "app.Mid", "definition": "app.api.Mid"},
  },
  "global": {
    "middleware_config": {
      "security": {"profiles": {"public": {"expose": "all"}, "private": {"expose": "admin"}}},
      "caching": {"profiles": {"off": {}, "local": {"activate": {"local": true}}}}
    },
    "defaults": {"service": {"config": {"security": "public", "caching": "off"}}}
  }
}`

const sampleYAML = `
config:
  url_prefix: [api, v1]
services:
  zeta:
    enabled: true
    service: app.Zeta
    config:
      security: private
      caching: local
  alpha:
    enabled: false
    service: app.Alpha
  mid:
    enabled: true
    service: app.Mid
    definition: app.api.Mid
global:
  middleware_config:
    security:
      profiles:
        public: {expose: all}
        private: {expose: admin}
    caching:
      profiles:
        "off": {}
        local: {activate: {local: true}}
  defaults:
    service:
      config:
        security: public
        caching: "off"
`

func serviceNames(f *File) []string {
	var names []string
	for _, s := range f.Services {
		names = append(names, s.Name)
	}
	return names
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "json with comments", data: sampleJSON, format: FormatJSON},
		{name: "yaml", data: sampleYAML, format: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), tt.format, "sample")
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got, want := serviceNames(f), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
				t.Errorf("service order = %v, want %v", got, want)
			}
			if got := []string(*f.Config.URLPrefix); !reflect.DeepEqual(got, []string{"api", "v1"}) {
				t.Errorf("URLPrefix = %q", got)
			}
			zeta := f.Services[0].Service
			if !zeta.Enabled || zeta.Service != "app.Zeta" || zeta.Config.Security != "private" || zeta.Config.Caching != "local" {
				t.Errorf("zeta = %+v", zeta)
			}
			if f.Services[2].Service.Definition != "app.api.Mid" {
				t.Errorf("mid definition = %q", f.Services[2].Service.Definition)
			}
			if !f.Global.MiddlewareConfig.Caching.Profiles["local"].Activate.Local {
				t.Error("local caching profile should activate local caching")
			}
			if f.Source() != "sample" {
				t.Errorf("Source() = %q", f.Source())
			}
		})
	}
}

func TestParse_RegistryPathDefault(t *testing.T) {
	f, err := Parse([]byte(sampleYAML), FormatYAML, "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if f.Config.RegistryPath == nil || *f.Config.RegistryPath != DefaultRegistryPath {
		t.Errorf("RegistryPath = %v, want %q", f.Config.RegistryPath, DefaultRegistryPath)
	}

	f, err = Parse([]byte(`{"config": {"url_prefix": "", "registry_path": ""}, "services": {}}`), FormatJSON, "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if f.Config.RegistryPath == nil || *f.Config.RegistryPath != "" {
		t.Errorf("explicit empty registry path should be kept, got %v", f.Config.RegistryPath)
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   []string
	}{
		{"json string", `{"config": {"url_prefix": "/_api/rpc"}}`, FormatJSON, []string{"", "_api", "rpc"}},
		{"json list", `{"config": {"url_prefix": ["api", "v1"]}}`, FormatJSON, []string{"api", "v1"}},
		{"yaml string", "config:\n  url_prefix: api/v2\n", FormatYAML, []string{"api", "v2"}},
		{"yaml list", "config:\n  url_prefix:\n    - api\n    - v3\n", FormatYAML, []string{"api", "v3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), tt.format, "")
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got := []string(*f.Config.URLPrefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("URLPrefix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"invalid json", `{"services": `, FormatJSON},
		{"services not an object", `{"services": []}`, FormatJSON},
		{"prefix wrong type", `{"config": {"url_prefix": 3}}`, FormatJSON},
		{"yaml services scalar", "services: nope\n", FormatYAML},
		{"unknown format", `{}`, Format("toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, "doc")
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v, want *errors.Error", err)
			}
			if e.Code != "E120" {
				t.Errorf("Code = %q, want E120", e.Code)
			}
		})
	}
}

func TestServices_MarshalJSON(t *testing.T) {
	f, err := Parse([]byte(sampleJSON), FormatJSON, "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	data, err := f.Services.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	s := string(data)
	if !(strings.Index(s, `"zeta"`) < strings.Index(s, `"alpha"`) && strings.Index(s, `"alpha"`) < strings.Index(s, `"mid"`)) {
		t.Errorf("order not preserved: %s", s)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantKey string
	}{
		{
			name:    "missing services",
			data:    `{"config": {"url_prefix": "api"}, "global": {"defaults": {"service": {"config": {"security": "a", "caching": "b"}}}}}`,
			wantKey: "services",
		},
		{
			name:    "missing url prefix",
			data:    `{"services": {}, "global": {"defaults": {"service": {"config": {"security": "a", "caching": "b"}}}}}`,
			wantKey: "config.url_prefix",
		},
		{
			name:    "missing default security",
			data:    `{"services": {}, "config": {"url_prefix": "api"}, "global": {"defaults": {"service": {"config": {"caching": "b"}}}}}`,
			wantKey: "global.defaults.service.config.security",
		},
		{
			name:    "missing default caching",
			data:    `{"services": {}, "config": {"url_prefix": "api"}, "global": {"defaults": {"service": {"config": {"security": "a"}}}}}`,
			wantKey: "global.defaults.service.config.caching",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), FormatJSON, "doc.json")
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			_, err = f.Registry()
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v, want *errors.Error", err)
			}
			if e.Code != "E123" {
				t.Errorf("Code = %q, want E123", e.Code)
			}
			if e.Location == nil || e.Location.Key != tt.wantKey || e.Location.Source != "doc.json" {
				t.Errorf("Location = %+v, want key %q", e.Location, tt.wantKey)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	f, err := Parse([]byte(sampleJSON), FormatJSON, "sample.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	reg, err := f.Registry()
	if err != nil {
		t.Fatalf("Registry() error: %v", err)
	}

	if !reg.Debug() {
		t.Error("Debug() should be true")
	}
	if reg.RegistryPath() != "/registry" {
		t.Errorf("RegistryPath() = %q", reg.RegistryPath())
	}
	if got := reg.EndpointURL("zeta"); got != "api/v1/zeta" {
		t.Errorf("EndpointURL(zeta) = %q", got)
	}
	entry, ok := reg.Lookup("zeta")
	if !ok {
		t.Fatal("zeta missing")
	}
	if _, sec := reg.ResolveSecurity(entry); sec.Exposure != registry.ExposeAdmin {
		t.Errorf("zeta exposure = %q", sec.Exposure)
	}
	if _, c := reg.ResolveCaching(entry); !c.ActivateLocal {
		t.Error("zeta caching should be local")
	}
}

func TestRegistry_UnresolvedDefault(t *testing.T) {
	data := strings.Replace(sampleJSON, `"security": "public", "caching": "off"}}}`, `"security": "ghost", "caching": "off"}}}`, 1)
	f, err := Parse([]byte(data), FormatJSON, "sample.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = f.Registry()
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E121" {
		t.Fatalf("error = %v, want E121", err)
	}
	if e.Location.Source != "sample.json" {
		t.Errorf("Source = %q, want sample.json", e.Location.Source)
	}
	if !stderrors.Is(err, errors.ErrConfigurationDefect) {
		t.Error("expected a configuration defect")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, DefaultFileName)); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(filepath.Join(dir, "services.toml")); err == nil {
		t.Error("expected error for unknown extension")
	}

	for name, content := range map[string]string{
		"services.jsonc": sampleJSON,
		"services.yml":   sampleYAML,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		f, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s) error: %v", name, err)
		}
		if got := serviceNames(f); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
			t.Errorf("%s: service order = %v", name, got)
		}
		if f.Source() != path {
			t.Errorf("Source() = %q, want %q", f.Source(), path)
		}
	}
}

type fakeS3 struct {
	objects map[string]string
	calls   int
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"cfg/services.yaml": sampleYAML,
		"cfg/services":      sampleJSON,
	}}

	for _, key := range []string{"services.yaml", "services"} {
		t.Run(key, func(t *testing.T) {
			src := S3Source{Client: client, Bucket: "cfg", Key: key}
			f, err := src.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got := serviceNames(f); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
				t.Errorf("service order = %v", got)
			}
			if f.Source() != "s3://cfg/"+key {
				t.Errorf("Source() = %q", f.Source())
			}
		})
	}

	_, err := S3Source{Client: client, Bucket: "cfg", Key: "missing.json"}.Load(context.Background())
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E125" {
		t.Fatalf("error = %v, want E125", err)
	}
	if stderrors.Is(err, errors.ErrConfigurationDefect) {
		t.Error("an unreachable source is not a configuration defect")
	}
}

func TestOpen(t *testing.T) {
	client := &fakeS3{}
	newClient := func() S3GetObjectAPI { return client }

	src, err := Open("conf/services.json", newClient)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, ok := src.(FileSource); !ok {
		t.Errorf("Open(path) = %T, want FileSource", src)
	}

	src, err = Open("s3://bucket/path/to/services.yaml", newClient)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	s3src, ok := src.(S3Source)
	if !ok {
		t.Fatalf("Open(s3) = %T, want S3Source", src)
	}
	if s3src.Bucket != "bucket" || s3src.Key != "path/to/services.yaml" {
		t.Errorf("S3Source = %+v", s3src)
	}
	if src.String() != "s3://bucket/path/to/services.yaml" {
		t.Errorf("String() = %q", src.String())
	}

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/"} {
		if _, err := Open(bad, newClient); err == nil {
			t.Errorf("Open(%q) should fail", bad)
		}
	}
}

func TestNewS3Client(t *testing.T) {
	env := map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKID",
		"AWS_SECRET_ACCESS_KEY": "SECRET",
	}
	client := NewS3Client(S3ClientConfig{
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
		Getenv:    func(k string) string { return env[k] },
	})
	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", opts.Region)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %q", aws.ToString(opts.BaseEndpoint))
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle should be set")
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if creds.AccessKeyID != "AKID" {
		t.Errorf("AccessKeyID = %q", creds.AccessKeyID)
	}
}
