package scanning

import (
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/ybae45/chopchop/internal/parsing"
)

var _ = Describe("Ollama", func() {
	var (
		server  *ghttp.Server
		scanner *Ollama
		request ollamaChatRequest
	)

	captureRequest := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, &request)).To(Succeed())
	}

	respondWith := func(content string) http.HandlerFunc {
		return ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: content},
			Done:    true,
		})
	}

	BeforeEach(func() {
		request = ollamaChatRequest{}
		server = ghttp.NewServer()

		var err error
		scanner, err = NewOllama(server.URL()+"/", "llava")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("ReadText", func() {
		When("the model transcribes the image", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.VerifyContentType("application/json"),
					captureRequest,
					respondWith("Publix\nMILK 2.50 F"),
				))
			})

			It("should return the cleaned transcript", func() {
				text, err := scanner.ReadText(encodePNG(), "image/png")
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(Equal("Publix\nMILK 2.50 F\n"))
			})

			It("should send the image with the user message", func() {
				_, err := scanner.ReadText(encodePNG(), "image/png")
				Expect(err).NotTo(HaveOccurred())
				Expect(request.Model).To(Equal("llava"))
				Expect(request.Messages).To(HaveLen(2))
				Expect(request.Messages[1].Images).To(HaveLen(1))
				Expect(request.Messages[1].Content).To(Equal(transcribePrompt))
			})
		})

		When("the model sees no text", func() {
			BeforeEach(func() {
				server.AppendHandlers(respondWith(""))
			})

			It("should return ErrNoText", func() {
				_, err := scanner.ReadText(encodePNG(), "image/png")
				Expect(err).To(MatchError(ErrNoText))
			})
		})

		When("the server fails", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
			})

			It("should return the API error", func() {
				_, err := scanner.ReadText(encodePNG(), "image/png")
				Expect(err).To(MatchError(ContainSubstring("status 500")))
				Expect(err).To(MatchError(ContainSubstring("model not loaded")))
			})
		})

		When("the upload cannot be converted", func() {
			It("should not call the server", func() {
				_, err := scanner.ReadText([]byte("hello"), "text/plain")
				Expect(err).To(HaveOccurred())
				Expect(server.ReceivedRequests()).To(BeEmpty())
			})
		})
	})

	Describe("AnalyzeEntities", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/chat"),
				captureRequest,
				respondWith(`[{"name": "Kroger Decatur", "type": "LOCATION"}, {"name": "Eggs", "type": "CONSUMER_GOOD"}]`),
			))
		})

		It("should send the text without images", func() {
			_, err := scanner.AnalyzeEntities("KROGER\nEGGS 3.49")
			Expect(err).NotTo(HaveOccurred())
			Expect(request.Messages[1].Images).To(BeEmpty())
			Expect(request.Messages[1].Content).To(HaveSuffix("KROGER\nEGGS 3.49"))
		})

		It("should return the parsed entities", func() {
			entities, err := scanner.AnalyzeEntities("KROGER\nEGGS 3.49")
			Expect(err).NotTo(HaveOccurred())
			Expect(entities).To(Equal([]parsing.Entity{
				{Name: "Kroger Decatur", Type: parsing.EntityLocation},
				{Name: "Eggs", Type: parsing.EntityConsumerGood},
			}))
		})
	})
})
