package client_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adamwoolhether/botifactory/client"
)

// exampleDir returns a scratch directory removed by the returned func.
func exampleDir() (string, func()) {
	dir, err := os.MkdirTemp("", "botifactory-example-*")
	if err != nil {
		panic(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

func ExampleBuild() {
	c, err := client.Build(
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("releaser/1.0"),
		client.WithRequestID(),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleRequest() {
	type createChannel struct {
		ChannelName string `json:"channel_name"`
	}

	u, _ := url.Parse("https://releases.example.com/bot/channel/new")

	req, err := client.Request(context.Background(), u, http.MethodPost,
		client.WithPayload(createChannel{ChannelName: "stable"}),
		client.WithHeaders(map[string][]string{"Accept": {"application/json"}}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(req.Method, req.URL.Path, req.Header.Get("Content-Type"))
	// Output: POST /bot/channel/new application/json
}

func ExampleClient_Do() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"release":{"id":4,"version":"1.2.0"}}`)
	}))
	defer ts.Close()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := client.Request(context.Background(), u, http.MethodGet)

	var body struct {
		Release struct {
			ID      int64
			Version string
		}
	}
	if err := c.Do(req, http.StatusOK, client.WithDestination(&body)); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(body.Release.ID, body.Release.Version)
	// Output: 4 1.2.0
}

func ExampleWithBytes() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "raw binary")
	}))
	defer ts.Close()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := client.Request(context.Background(), u, http.MethodGet)

	var b []byte
	if err := c.Do(req, http.StatusOK, client.WithBytes(&b)); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(string(b))
	// Output: raw binary
}

func ExampleWithMultipart() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("binary")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		fmt.Fprintf(w, "%s %s", r.FormValue("version"), header.Filename)
	}))
	defer ts.Close()

	dir, cleanup := exampleDir()
	defer cleanup()

	path := filepath.Join(dir, "bot.bin")
	os.WriteFile(path, []byte("binary"), 0o644)

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, err := client.Request(context.Background(), u, http.MethodPost,
		client.WithMultipart(
			[]client.FormField{{Name: "version", Value: "1.0.0"}},
			client.FormFile{Field: "binary", Path: path},
		),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var b []byte
	if err := c.Do(req, http.StatusOK, client.WithBytes(&b)); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(string(b))
	// Output: 1.0.0 bot.bin
}

func ExampleClient_Download() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("release binary"))
	}))
	defer ts.Close()

	dir, cleanup := exampleDir()
	defer cleanup()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := client.Request(context.Background(), u, http.MethodGet)

	dest := filepath.Join(dir, "bot.bin")
	if err := c.Download(req, http.StatusOK, dest); err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output: release binary
}

func ExampleWithChecksum() {
	body := []byte("verified content")
	sum := sha256.Sum256(body)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer ts.Close()

	dir, cleanup := exampleDir()
	defer cleanup()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := client.Request(context.Background(), u, http.MethodGet)

	dest := filepath.Join(dir, "bot.bin")
	err := c.Download(req, http.StatusOK, dest,
		client.WithChecksum(sha256.New(), hex.EncodeToString(sum[:])),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output: verified content
}

func ExampleWithSkipExisting() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("newer"))
	}))
	defer ts.Close()

	dir, cleanup := exampleDir()
	defer cleanup()

	dest := filepath.Join(dir, "bot.bin")
	os.WriteFile(dest, []byte("original"), 0o644)

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := client.Request(context.Background(), u, http.MethodGet)

	err := c.Download(req, http.StatusOK, dest, client.WithSkipExisting())

	fmt.Println("error:", err)
	data, _ := os.ReadFile(dest)
	fmt.Println(string(data))
	// Output:
	// error: <nil>
	// original
}

func ExampleWithBatch() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("release:" + r.URL.Path))
	}))
	defer ts.Close()

	dir, cleanup := exampleDir()
	defer cleanup()

	c, _ := client.Build()

	uA, _ := url.Parse(ts.URL + "/release/1")
	reqA, _ := client.Request(context.Background(), uA, http.MethodGet)

	// Start the first download with a batch concurrency limit of 2.
	r, err := c.DownloadAsync(reqA, http.StatusOK, filepath.Join(dir, "a.bin"), client.WithBatch(2))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Enqueue a second download into the same batch.
	uB, _ := url.Parse(ts.URL + "/release/2")
	reqB, _ := client.Request(context.Background(), uB, http.MethodGet)
	r.Add(reqB, http.StatusOK, filepath.Join(dir, "b.bin"))

	if err := r.Wait(); err != nil {
		fmt.Println("batch error:", err)
		return
	}

	dataA, _ := os.ReadFile(filepath.Join(dir, "a.bin"))
	dataB, _ := os.ReadFile(filepath.Join(dir, "b.bin"))
	fmt.Println(string(dataA))
	fmt.Println(string(dataB))
	// Output:
	// release:/release/1
	// release:/release/2
}
