package models_test

import (
	"testing"

	"ametogo/models"

	"github.com/stretchr/testify/assert"
)

func completeProfile(photos int) models.Profile {
	urls := make([]string, photos)
	for i := range urls {
		urls[i] = "https://example.com/photo.jpg"
	}
	return models.Profile{
		Name:               "Afi",
		Age:                25,
		City:               "Lomé",
		Gender:             "Femme",
		Passions:           []string{"Musique"},
		ProfileTypes:       []string{models.ProfileTypeAmoureuse},
		ProfilePictureUrls: urls,
	}
}

func TestCompleteRequiresThreePhotos(t *testing.T) {
	for photos := 0; photos <= models.MaxProfilePhotos; photos++ {
		p := completeProfile(photos)
		assert.Equal(t, photos >= models.MinProfilePhotos, p.Complete(),
			"profile with %d photos", photos)
	}
}

func TestCompleteRequiresTheBasics(t *testing.T) {
	base := completeProfile(models.MinProfilePhotos)
	assert.True(t, base.Complete())

	underage := base
	underage.Age = 17
	assert.False(t, underage.Complete())

	noCity := base
	noCity.City = ""
	assert.False(t, noCity.Complete())

	noGender := base
	noGender.Gender = ""
	assert.False(t, noGender.Complete())

	noTypes := base
	noTypes.ProfileTypes = nil
	assert.False(t, noTypes.Complete())
}
