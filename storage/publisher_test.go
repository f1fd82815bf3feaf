package storage

import "testing"

func TestS3PublisherURLs(t *testing.T) {
	cases := []struct {
		name     string
		pub      S3Publisher
		filename string
		wantKey  string
		wantURL  string
	}{
		{
			name:     "cdn base url",
			pub:      S3Publisher{bucket: "clips", keyPrefix: "overlays", publicBaseURL: "https://cdn.example.com"},
			filename: "abc.mp4",
			wantKey:  "overlays/abc.mp4",
			wantURL:  "https://cdn.example.com/overlays/abc.mp4",
		},
		{
			name:     "virtual hosted with region",
			pub:      S3Publisher{bucket: "clips", keyPrefix: "overlays", region: "eu-west-1"},
			filename: "abc.mp4",
			wantKey:  "overlays/abc.mp4",
			wantURL:  "https://clips.s3.eu-west-1.amazonaws.com/overlays/abc.mp4",
		},
		{
			name:     "no prefix no region",
			pub:      S3Publisher{bucket: "clips"},
			filename: "abc.mp4",
			wantKey:  "abc.mp4",
			wantURL:  "https://clips.s3.amazonaws.com/abc.mp4",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key := c.pub.objectKey(c.filename)
			if key != c.wantKey {
				t.Errorf("objectKey = %q; want %q", key, c.wantKey)
			}
			url := c.pub.publicURL(key)
			if url != c.wantURL {
				t.Errorf("publicURL = %q; want %q", url, c.wantURL)
			}

			// A minted URL maps back to its key.
			back, ok := c.pub.keyFromURL(url)
			if !ok || back != key {
				t.Errorf("keyFromURL(%q) = %q, %v; want %q, true", url, back, ok, key)
			}
		})
	}
}

func TestKeyFromURLRejectsForeignURLs(t *testing.T) {
	pub := S3Publisher{bucket: "clips", keyPrefix: "overlays", publicBaseURL: "https://cdn.example.com"}

	for _, url := range []string{
		"https://other.example.com/overlays/abc.mp4",
		"https://cdn.example.com/", // no key
		"",
	} {
		if key, ok := pub.keyFromURL(url); ok {
			t.Errorf("keyFromURL(%q) = %q, true; want rejection", url, key)
		}
	}
}
