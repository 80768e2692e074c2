package transcribe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

// Languages are the candidates for automatic language identification.
var Languages = []types.LanguageCode{types.LanguageCodeEnUs, types.LanguageCodeArSa}

// Jobs starts transcription jobs that write their JSON output back into the
// bucket the media came from.
type Jobs struct {
	client       *awstranscribe.Client
	bucket       string
	outputPrefix string
}

func NewJobs(ctx context.Context, region, bucket, outputPrefix string) (*Jobs, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewJobsFromClient(awstranscribe.NewFromConfig(cfg), bucket, outputPrefix), nil
}

func NewJobsFromClient(client *awstranscribe.Client, bucket, outputPrefix string) *Jobs {
	return &Jobs{client: client, bucket: bucket, outputPrefix: outputPrefix}
}

// OutputKey is where a job's transcript lands, "<prefix><job>.json".
func (j *Jobs) OutputKey(job string) string {
	return j.outputPrefix + job + Ext
}

// Start submits an mp3 object for transcription under the given job name.
func (j *Jobs) Start(ctx context.Context, job, mediaKey string) error {
	_, err := j.client.StartTranscriptionJob(ctx, &awstranscribe.StartTranscriptionJobInput{
		TranscriptionJobName:      aws.String(job),
		Media:                     &types.Media{MediaFileUri: aws.String("s3://" + j.bucket + "/" + mediaKey)},
		MediaFormat:               types.MediaFormatMp3,
		OutputBucketName:          aws.String(j.bucket),
		OutputKey:                 aws.String(j.OutputKey(job)),
		IdentifyMultipleLanguages: aws.Bool(true),
		LanguageOptions:           Languages,
	})
	if err != nil {
		return fmt.Errorf("start transcription %q: %w", job, err)
	}

	return nil
}
