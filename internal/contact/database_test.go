package contact

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/okrent/cardscan/internal/classify"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveContact", func() {
		var (
			contact *Contact
			err     error
		)

		BeforeEach(func() {
			contact = &Contact{
				ID: "test-id",
				Card: classify.Card{
					Name:       "Jane Doe",
					Company:    "Acme Inc",
					Email:      "jane@acme.com",
					RawText:    "Jane Doe\nAcme Inc\njane@acme.com",
					Source:     classify.SourceUpload,
					Confidence: 0.8,
				},
				Filename:    "test-id_card.jpg",
				ContentType: "image/jpeg",
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveContact(contact)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the contact to the database", func() {
				saved, getErr := db.GetContact("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetContact", func() {
		var (
			contactID string
			contact   *Contact
			err       error
		)

		JustBeforeEach(func() {
			contact, err = db.GetContact(contactID)
		})

		When("contact exists", func() {
			BeforeEach(func() {
				contactID = "test-id"
				testContact := &Contact{
					ID: "test-id",
					Card: classify.Card{
						Name:       "Jane Doe",
						Company:    "Acme Inc",
						Email:      "jane@acme.com",
						RawText:    "Jane Doe\nAcme Inc\njane@acme.com",
						Source:     classify.SourceCamera,
						Confidence: 0.6,
					},
					Filename:    "test-id_card.jpg",
					ContentType: "image/jpeg",
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}
				Expect(db.SaveContact(testContact)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct contact ID", func() {
				Expect(contact.ID).To(Equal("test-id"))
			})

			It("should return the classified fields", func() {
				Expect(contact.Name).To(Equal("Jane Doe"))
				Expect(contact.Company).To(Equal("Acme Inc"))
				Expect(contact.Email).To(Equal("jane@acme.com"))
			})

			It("should return the raw transcription", func() {
				Expect(contact.RawText).To(Equal("Jane Doe\nAcme Inc\njane@acme.com"))
			})

			It("should return the scan source and confidence", func() {
				Expect(contact.Source).To(Equal(classify.SourceCamera))
				Expect(contact.Confidence).To(Equal(0.6))
			})
		})

		When("contact does not exist", func() {
			BeforeEach(func() {
				contactID = "nonexistent"
			})

			It("returns the not found sentinel", func() {
				Expect(err).To(MatchError(ErrNotFound))
			})

			It("names the missing ID in the message", func() {
				Expect(err).To(MatchError("contact not found: nonexistent"))
			})
		})
	})

	Describe("ListContacts", func() {
		var (
			contacts []*Contact
			err      error
		)

		JustBeforeEach(func() {
			contacts, err = db.ListContacts()
		})

		When("contacts exist", func() {
			BeforeEach(func() {
				contact1 := &Contact{
					ID:        "id1",
					Card:      classify.Card{Name: "Jane Doe"},
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				contact2 := &Contact{
					ID:        "id2",
					Card:      classify.Card{Name: "Ravi Kumar"},
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveContact(contact1)).NotTo(HaveOccurred())
				Expect(db.SaveContact(contact2)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all contacts", func() {
				Expect(contacts).To(HaveLen(2))
			})
		})

		When("no contacts exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(contacts).To(BeEmpty())
			})
		})
	})

	Describe("DeleteContact", func() {
		var (
			contactID string
			err       error
		)

		JustBeforeEach(func() {
			err = db.DeleteContact(contactID)
		})

		When("contact exists", func() {
			BeforeEach(func() {
				contactID = "test-id"
				contact := &Contact{
					ID:        "test-id",
					Card:      classify.Card{Name: "Jane Doe"},
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				Expect(db.SaveContact(contact)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the contact from the database", func() {
				_, getErr := db.GetContact("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("contact does not exist", func() {
			BeforeEach(func() {
				contactID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
