package drop // import "blitznote.com/src/http.drop"

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestResolveDestination(t *testing.T) {
	Convey("resolveDestination", t, FailureContinues, func() {
		fs := afero.NewMemMapFs()
		for _, name := range []string{"a.txt", "a.tar.gz", "noext", ".hidden", "dir.d", "trailing."} {
			afero.WriteFile(fs, "./"+name, []byte("DELME"), 0644)
		}
		fs.Mkdir("./folder", 0755)

		samples := []struct {
			filename string
			resolved string
		}{
			{"fresh.txt", "./fresh.txt"},
			{"fresh", "./fresh"},
			{"a.txt", "./a_new.txt"},
			{"a.tar.gz", "./a_new.tar.gz"},
			{"noext", "./noext_new"},
			{".hidden", "./_new.hidden"},
			{"dir.d", "./dir_new.d"},
			{"trailing.", "./trailing_new."},
			{"folder", "./folder_new"}, // anything existing counts, directories too
		}

		for _, tuple := range samples {
			So(resolveDestination(fs, ".", tuple.filename, DefaultCollisionSuffix), ShouldEqual, tuple.resolved)
		}

		Convey("with a different directory and suffix", func() {
			afero.WriteFile(fs, "/srv/up/a.txt", []byte("DELME"), 0644)
			So(resolveDestination(fs, "/srv/up", "a.txt", ".1"), ShouldEqual, "/srv/up/a.1.txt")
			So(resolveDestination(fs, "/srv/up", "b.txt", ".1"), ShouldEqual, "/srv/up/b.txt")
		})
	})
}
