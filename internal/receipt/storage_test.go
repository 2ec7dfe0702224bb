package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			name      string
			savedPath string
			err       error
		)

		BeforeEach(func() {
			name = userFilePath("user-1", "r1_scan.jpg")
		})

		JustBeforeEach(func() {
			savedPath, err = storage.Save(name, []byte("test file content"))
		})

		When("saving succeeds", func() {
			It("should return the relative path", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedPath).To(Equal("users/user-1/receipts/r1_scan.jpg"))
			})

			It("should create the user's directory and write the file", func() {
				data, readErr := os.ReadFile(filepath.Join(tmpDir, "users", "user-1", "receipts", "r1_scan.jpg"))
				Expect(readErr).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("test file content"))
			})
		})

		When("the path escapes the storage root", func() {
			BeforeEach(func() {
				name = "../outside.jpg"
			})

			It("should return an error", func() {
				Expect(err).To(MatchError(ContainSubstring("invalid storage path")))
			})
		})
	})

	Describe("Get and Delete", func() {
		var name string

		BeforeEach(func() {
			name = userFilePath("user-1", "r1_scan.jpg")
			_, err := storage.Save(name, []byte("content"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should read the file back", func() {
			data, err := storage.Get(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("content"))
		})

		It("should delete the file", func() {
			Expect(storage.Delete(name)).To(Succeed())
			_, err := storage.Get(name)
			Expect(err).To(MatchError(ContainSubstring("reading file")))
		})

		It("should fail to delete a missing file", func() {
			Expect(storage.Delete(userFilePath("user-1", "missing"))).To(MatchError(ContainSubstring("deleting file")))
		})
	})
})
