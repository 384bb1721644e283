package service

import (
	"context"
	"errors"
	petModel "pawsay/internal/domain/pet/model"
	"pawsay/internal/domain/translation/model"
	"pawsay/internal/pkg/capture"
	"pawsay/internal/pkg/uploader"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGenerator is a mock of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Classify(ctx context.Context, req ClassifyRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	args := m.Called(prompt)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

var clip = capture.Clip{Data: []byte("RIFF"), MIMEType: "audio/webm"}

func TestTranslateWithImage(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Classify", mock.MatchedBy(func(req ClassifyRequest) bool {
		return req.MIMEType == "audio/webm" &&
			strings.Contains(req.SystemInstruction, "WOOF/BARK/WHINE/GROWL") &&
			strings.Contains(req.SystemInstruction, "The pet's name is Rex.")
	})).Return(`{"detectedSoundType":"pet_vocalization","soundDetected":true,"emotion":"excited","explanation":"Walk now!","advice":"Grab the leash."}`, nil)
	gen.On("GenerateImage", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "a Beagle dog expressing excited") &&
			strings.Contains(prompt, "playful personality")
	})).Return([]byte{0x89, 'P', 'N', 'G'}, "image/png", nil)

	svc := NewTranslationService(gen, uploader.DataURIStore{}, 0, nil)
	profile := &petModel.PetProfile{Species: petModel.SpeciesDog, Name: "Rex", Breed: "Beagle", Personality: "Playful"}

	got, err := svc.Translate(context.Background(), clip, petModel.SpeciesCat, profile)
	require.NoError(t, err)

	want := &model.Judgment{
		SoundDetected:     true,
		DetectedSoundType: model.SoundPetVocalization,
		Emotion:           "excited",
		Explanation:       "Walk now!",
		Advice:            "Grab the leash.",
		ImageURL:          uploader.DataURI([]byte{0x89, 'P', 'N', 'G'}, "image/png"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("judgment mismatch (-want +got):\n%s", diff)
	}
	gen.AssertExpectations(t)
}

func TestTranslateNoSoundSkipsImage(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Classify", mock.Anything).
		Return(`{"detectedSoundType":"human_speech","soundDetected":false,"emotion":null,"explanation":null,"advice":null}`, nil)

	svc := NewTranslationService(gen, uploader.DataURIStore{}, 0, nil)
	got, err := svc.Translate(context.Background(), clip, petModel.SpeciesCat, nil)
	require.NoError(t, err)

	assert.False(t, got.SoundDetected)
	assert.Equal(t, model.SoundHumanSpeech, got.DetectedSoundType)
	assert.Empty(t, got.ImageURL)
	gen.AssertNotCalled(t, "GenerateImage", mock.Anything)
}

func TestTranslateImageFailureIsSwallowed(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Classify", mock.Anything).
		Return(`{"detectedSoundType":"pet_vocalization","soundDetected":true,"emotion":"hungry","explanation":"Food.","advice":"Feed me."}`, nil)
	gen.On("GenerateImage", mock.Anything).Return(nil, "", errors.New("quota exceeded"))

	svc := NewTranslationService(gen, uploader.DataURIStore{}, 0, nil)
	got, err := svc.Translate(context.Background(), clip, petModel.SpeciesCat, nil)
	require.NoError(t, err)
	assert.Equal(t, "hungry", got.Emotion)
	assert.Empty(t, got.ImageURL)
}

func TestTranslateClassificationFailurePropagates(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Classify", mock.Anything).Return("", errors.New("unavailable"))

	svc := NewTranslationService(gen, uploader.DataURIStore{}, 0, nil)
	_, err := svc.Translate(context.Background(), clip, petModel.SpeciesCat, nil)
	assert.Error(t, err)

	_, err = svc.Translate(context.Background(), capture.Clip{}, petModel.SpeciesCat, nil)
	assert.ErrorIs(t, err, ErrEmptyClip)
}

func TestParseJudgmentIsStrict(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `{"soundDetected": tru`,
		"missing detected":   `{"detectedSoundType":"silence"}`,
		"missing sound type": `{"soundDetected":false}`,
		"unknown category":   `{"detectedSoundType":"bird_song","soundDetected":true}`,
		"trailing data":      `{"detectedSoundType":"silence","soundDetected":false} {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJudgment(raw)
			assert.ErrorIs(t, err, ErrMalformedJudgment)
		})
	}

	j, err := ParseJudgment(`{"detectedSoundType":"silence","soundDetected":false,"emotion":null}`)
	require.NoError(t, err)
	assert.Equal(t, &model.Judgment{DetectedSoundType: model.SoundSilence}, j)
}

func TestPromptsAreSanitized(t *testing.T) {
	profile := &petModel.PetProfile{
		Species:     petModel.SpeciesCat,
		Name:        "<script>alert(1)</script>Tom",
		Personality: strings.Repeat("grumpy ", 30),
	}
	instr := SystemInstruction(petModel.SpeciesCat, profile)
	assert.NotContains(t, instr, "<script>")
	assert.Contains(t, instr, "The pet's name is alert(1)Tom.")
	assert.Contains(t, instr, "Breed: Unknown.")
	assert.Contains(t, instr, "MEOW/PURR/HISS")

	prompt := ImagePrompt(petModel.SpeciesCat, "sleepy", &petModel.PetProfile{Breed: "Other"})
	assert.Contains(t, prompt, "a cat cat expressing sleepy")
}
