package drop // import "blitznote.com/src/http.drop"

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func osProcessor(dir string) *Processor {
	cfg := NewDefaultConfiguration(dir)
	cfg.Logger = quietLogger
	p, err := NewProcessor(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Streams one part named 'filename' with 'size' bytes of synthetic data into the returned reader.
// If 'failWith' is set the stream breaks off after half the data.
func synthesizedUpload(filename string, size int, failWith error) *multipart.Reader {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		p, _ := mw.CreateFormFile("file", filename)
		chunk := bytes.Repeat([]byte("0123456789abcdef"), 1<<12) // 64 KiB
		for sent := 0; sent < size; sent += len(chunk) {
			if failWith != nil && sent >= size/2 {
				pw.CloseWithError(failWith)
				return
			}
			if _, err := p.Write(chunk); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		mw.Close()
		pw.Close()
	}()
	return multipart.NewReader(pr, mw.Boundary())
}

func TestProcessor_Process(t *testing.T) {
	Convey("Streaming", t, func() {
		dir, err := os.MkdirTemp(scratchDir, "stream")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)
		p := osProcessor(dir)

		Convey("does not hold files in memory", func() {
			if testing.Short() {
				SkipSo("skipped in short mode")
				return
			}
			const size = 64 << 20

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			res, retval, err := p.Process(context.Background(), synthesizedUpload("big.bin", size, nil))
			runtime.ReadMemStats(&after)

			So(err, ShouldBeNil)
			So(retval, ShouldEqual, 200)
			So(res.Files, ShouldHaveLength, 1)
			So(res.Files[0].Size, ShouldEqual, size)
			So(after.TotalAlloc-before.TotalAlloc, ShouldBeLessThan, size/8)

			finfo, err := os.Stat(dir + "/big.bin")
			So(err, ShouldBeNil)
			So(finfo.Size(), ShouldEqual, size)
		})

		Convey("leaves the partial file on disk if the client goes away", func() {
			res, retval, err := p.Process(context.Background(),
				synthesizedUpload("broken.bin", 1<<20, errors.New("connection reset by peer")))

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "connection reset by peer")
			So(retval, ShouldEqual, 500)
			So(res.Files, ShouldBeEmpty)

			finfo, err := os.Stat(dir + "/broken.bin")
			So(err, ShouldBeNil)
			So(finfo.Size(), ShouldBeGreaterThan, 0)
			So(finfo.Size(), ShouldBeLessThan, 1<<20)
		})

		Convey("stops once the request has been cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, retval, err := p.Process(ctx, synthesizedUpload("cancelled.bin", 1<<20, nil))
			So(retval, ShouldEqual, 500)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Concurrent uploads of the same name", t, func() {
		dir, err := os.MkdirTemp(scratchDir, "race")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)
		p := osProcessor(dir)

		Convey("end up in different files", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				paths []string
			)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, _, err := p.Process(context.Background(), synthesizedUpload("same.bin", 1<<18, nil))
					if err == nil {
						mu.Lock()
						paths = append(paths, res.Last())
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			sort.Strings(paths)
			So(paths, ShouldResemble, []string{dir + "/same.bin", dir + "/same_new.bin"})
		})
	})
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, os.ErrClosed
	}
	w.after -= len(p)
	return len(p), nil
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestCopyChunks(t *testing.T) {
	Convey("copyChunks", t, func() {
		Convey("copies everything in order", func() {
			src := strings.Repeat("DELME", 100000)
			dst := &bytes.Buffer{}
			n, err := copyChunks(context.Background(), dst, strings.NewReader(src))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, len(src))
			So(dst.String(), ShouldEqual, src)
		})

		Convey("reports write failures", func() {
			n, err := copyChunks(context.Background(), &failingWriter{after: chunkSize}, strings.NewReader(strings.Repeat("x", 3*chunkSize)))
			So(errors.Is(err, os.ErrClosed), ShouldBeTrue)
			So(n, ShouldEqual, chunkSize)
		})

		Convey("reports short writes", func() {
			_, err := copyChunks(context.Background(), shortWriter{}, strings.NewReader("DELME"))
			So(errors.Is(err, io.ErrShortWrite), ShouldBeTrue)
		})
	})
}

func TestResult_Last(t *testing.T) {
	Convey("Result.Last", t, func() {
		So(Result{}.Last(), ShouldEqual, "")
		So(Result{Files: []Written{{Path: "./a"}, {Path: "./b"}}}.Last(), ShouldEqual, "./b")
	})
}

func TestProcessorOnMemMapFs(t *testing.T) {
	Convey("A processor on an in-memory filesystem", t, func() {
		fs := afero.NewMemMapFs()
		p, err := NewProcessor(&Configuration{WriteToPath: ".", Fs: fs, Logger: quietLogger})
		So(err, ShouldBeNil)

		res, retval, err := p.Process(context.Background(), synthesizedUpload("mem.bin", 1<<17, nil))
		So(err, ShouldBeNil)
		So(retval, ShouldEqual, 200)
		So(res.Last(), ShouldEqual, "./mem.bin")

		contents, err := afero.ReadFile(fs, "./mem.bin")
		So(err, ShouldBeNil)
		So(len(contents), ShouldEqual, 1<<17)
		So(string(contents[:16]), ShouldEqual, "0123456789abcdef")
	})
}
