package scanning

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// encodeTestJPEG builds a small real JPEG for conversion tests
func encodeTestJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("DecodeDataURL", func() {
	var (
		dataURL     string
		data        []byte
		contentType string
		err         error
	)

	JustBeforeEach(func() {
		data, contentType, err = DecodeDataURL(dataURL)
	})

	When("decoding a valid base64 data URL", func() {
		BeforeEach(func() {
			dataURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("card bytes"))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the decoded bytes", func() {
			Expect(data).To(Equal([]byte("card bytes")))
		})

		It("should return the declared MIME type", func() {
			Expect(contentType).To(Equal("image/jpeg"))
		})
	})

	When("the string is not a data URL", func() {
		BeforeEach(func() {
			dataURL = "http://example.com/card.jpg"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the payload separator is missing", func() {
		BeforeEach(func() {
			dataURL = "data:image/jpeg;base64"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the data URL is not base64 encoded", func() {
		BeforeEach(func() {
			dataURL = "data:image/png,rawpixels"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("base64"))
		})
	})

	When("the payload is not valid base64", func() {
		BeforeEach(func() {
			dataURL = "data:image/jpeg;base64,not!!valid"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	heicHeader := func(brand string) []byte {
		return append([]byte{0, 0, 0, 24, 'f', 't', 'y', 'p'}, []byte(brand)...)
	}

	It("should detect the heic brand", func() {
		Expect(isHEICFormat(heicHeader("heic"))).To(BeTrue())
	})

	It("should detect the mif1 brand", func() {
		Expect(isHEICFormat(heicHeader("mif1"))).To(BeTrue())
	})

	It("should reject other ftyp brands", func() {
		Expect(isHEICFormat(heicHeader("mp42"))).To(BeFalse())
	})

	It("should reject short data", func() {
		Expect(isHEICFormat([]byte("tiny"))).To(BeFalse())
	})
})

var _ = Describe("prepareImageData", func() {
	var (
		imageData   []byte
		contentType string
		finalData   []byte
		mimeType    string
		converted   bool
		err         error
	)

	JustBeforeEach(func() {
		finalData, mimeType, converted, err = prepareImageData(imageData, contentType)
	})

	When("the image is already a PNG", func() {
		BeforeEach(func() {
			imageData = []byte("png passthrough")
			contentType = "image/png"
		})

		It("should pass the data through untouched", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(finalData).To(Equal(imageData))
			Expect(converted).To(BeFalse())
			Expect(mimeType).To(Equal("image/png"))
		})
	})

	When("the image is a JPEG", func() {
		BeforeEach(func() {
			imageData = encodeTestJPEG()
			contentType = "image/jpeg"
		})

		It("should convert to a decodable PNG", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(converted).To(BeTrue())

			_, decodeErr := png.Decode(bytes.NewReader(finalData))
			Expect(decodeErr).NotTo(HaveOccurred())
		})
	})

	When("the content type is missing", func() {
		BeforeEach(func() {
			imageData = encodeTestJPEG()
			contentType = ""
		})

		It("should assume JPEG and convert", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(converted).To(BeTrue())
		})
	})

	When("the data is not an image", func() {
		BeforeEach(func() {
			imageData = []byte("definitely not pixels")
			contentType = "image/jpeg"
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
