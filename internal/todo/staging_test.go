package todo

import "testing"

func TestKindForName(t *testing.T) {
	cases := map[string]MediaKind{
		"photo.jpg":       KindImage,
		"photo.JPEG":      KindImage,
		"diagram.svg":     KindImage,
		"anim.webp":       KindImage,
		"report.pdf":      KindDocument,
		"notes.md":        KindDocument,
		"clip.mp4":        KindVideo,
		"song.mp3":        KindAudio,
		"backup.tar":      KindArchive,
		"data.bin":        KindOther,
		"no-extension":    KindOther,
		"dir/nested.png":  KindImage,
		"weird.name.docx": KindDocument,
	}
	for name, want := range cases {
		if got := KindForName(name); got != want {
			t.Errorf("KindForName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestStageFilePreview(t *testing.T) {
	t.Run("image extensions get a preview handle", func(t *testing.T) {
		for _, name := range []string{"a.jpg", "a.jpeg", "a.png", "a.gif", "a.webp", "a.svg"} {
			f := StageFile(name, []byte("data"))
			if f.Preview() == nil {
				t.Errorf("StageFile(%q): expected preview handle", name)
			}
		}
	})

	t.Run("non-image extensions get none", func(t *testing.T) {
		for _, name := range []string{"a.pdf", "a.mp4", "a.zip", "a.txt", "a"} {
			f := StageFile(name, []byte("data"))
			if f.Preview() != nil {
				t.Errorf("StageFile(%q): unexpected preview handle", name)
			}
		}
	})

	t.Run("release frees exactly once", func(t *testing.T) {
		f := StageFile("a.png", []byte("data"))
		p := f.Preview()
		if p.Released() {
			t.Fatal("fresh preview already released")
		}
		if p.Data() == nil {
			t.Fatal("fresh preview has no data")
		}
		f.Release()
		if !p.Released() || p.Data() != nil {
			t.Error("release did not free the handle")
		}
		f.Release() // second release is a no-op
		if !p.Released() {
			t.Error("handle lost released state")
		}
	})

	t.Run("nil handles are safe", func(t *testing.T) {
		var f *StagedFile
		f.Release()
		var p *Preview
		p.Release()
		if !p.Released() {
			t.Error("nil preview should read as released")
		}
	})

	t.Run("staged name is base name only", func(t *testing.T) {
		f := StageFile("/tmp/uploads/receipt.png", []byte("x"))
		if f.Name != "receipt.png" {
			t.Errorf("Name = %q", f.Name)
		}
	})
}
