package scanning

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/otiai10/gosseract/v2"
)

// fakeTessClient is a scripted tessClient
type fakeTessClient struct {
	text      string
	boxes     []gosseract.BoundingBox
	langErr   error
	imageErr  error
	textErr   error
	boxErr    error
	languages []string
	imageData []byte
	closed    bool
}

func (f *fakeTessClient) SetImageFromBytes(data []byte) error {
	f.imageData = data
	return f.imageErr
}

func (f *fakeTessClient) SetLanguage(languages ...string) error {
	f.languages = languages
	return f.langErr
}

func (f *fakeTessClient) Text() (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeTessClient) GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error) {
	if f.boxErr != nil {
		return nil, f.boxErr
	}
	return f.boxes, nil
}

func (f *fakeTessClient) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Tesseract", func() {
	var (
		client *fakeTessClient
		engine *Tesseract
		ctx    context.Context
		result RecognizedText
		err    error
	)

	BeforeEach(func() {
		client = &fakeTessClient{
			text: "Jane Doe\nAcme Inc",
			boxes: []gosseract.BoundingBox{
				{Word: "Jane", Confidence: 90},
				{Word: "Doe", Confidence: 80},
			},
		}
		engine = NewTesseract("")
		engine.newClient = func() tessClient { return client }
		ctx = context.Background()
	})

	JustBeforeEach(func() {
		result, err = engine.Recognize(ctx, []byte("fake png"))
	})

	When("recognition succeeds", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the extracted text", func() {
			Expect(result.Text).To(Equal("Jane Doe\nAcme Inc"))
		})

		It("should average the word confidences down to 0..1", func() {
			Expect(result.Confidence).To(BeNumerically("~", 0.85, 1e-9))
		})

		It("should tag the result as local", func() {
			Expect(result.Provider).To(Equal(ProviderLocal))
		})

		It("should default the language hint to eng", func() {
			Expect(client.languages).To(Equal([]string{"eng"}))
		})

		It("should hand the image bytes to the client", func() {
			Expect(client.imageData).To(Equal([]byte("fake png")))
		})

		It("should close the client", func() {
			Expect(client.closed).To(BeTrue())
		})
	})

	When("a language hint is configured", func() {
		BeforeEach(func() {
			engine = NewTesseract("eng+deu")
			engine.newClient = func() tessClient { return client }
		})

		It("should pass the hint through", func() {
			Expect(client.languages).To(Equal([]string{"eng+deu"}))
		})
	})

	When("no word boxes are available", func() {
		BeforeEach(func() {
			client.boxes = nil
		})

		It("should report zero confidence", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Confidence).To(BeZero())
		})
	})

	When("reading word boxes fails", func() {
		BeforeEach(func() {
			client.boxErr = errors.New("iterator broken")
		})

		It("should keep the text and report zero confidence", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("Jane Doe\nAcme Inc"))
			Expect(result.Confidence).To(BeZero())
		})
	})

	When("text extraction fails", func() {
		BeforeEach(func() {
			client.textErr = errors.New("tesseract crashed")
		})

		It("should return the error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("extracting text"))
		})
	})

	When("loading the image fails", func() {
		BeforeEach(func() {
			client.imageErr = errors.New("bad image")
		})

		It("should return the error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("loading image"))
		})
	})

	When("the context is already canceled", func() {
		BeforeEach(func() {
			canceled, cancel := context.WithCancel(context.Background())
			cancel()
			ctx = canceled
		})

		It("should fail before touching the client", func() {
			Expect(err).To(HaveOccurred())
			Expect(client.imageData).To(BeNil())
		})
	})

	When("a progress callback is registered", func() {
		var stages []float64

		BeforeEach(func() {
			stages = nil
			engine.SetProgress(func(stage float64) {
				stages = append(stages, stage)
			})
		})

		It("should report coarse stages from 0 to 1", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(stages).To(Equal([]float64{0, 0.5, 1}))
		})
	})
})
