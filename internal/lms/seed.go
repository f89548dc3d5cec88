package lms

import (
	"context"
	"fmt"

	"github.com/litclass/litclass-lms/internal/curriculum"
)

// SampleLessons is the starter curriculum a fresh deployment can sync in.
var SampleLessons = []*curriculum.Lesson{
	{
		ID:               "lesson-1",
		Order:            1,
		Title:            "Bài 1: Những gương mặt thân yêu",
		Description:      "Thơ sáu chữ, bảy chữ về tình cảm gia đình.",
		MonthUnlock:      9,
		IntroductionHTML: "<p>Tri thức ngữ văn: thơ sáu chữ, bảy chữ; từ tượng hình và từ tượng thanh.</p>",
		IsPublished:      true,
		SubLessons: []curriculum.SubLesson{
			{ID: "l1_vb1", Title: "Văn bản 1: Trong lời mẹ hát", Type: curriculum.SubMainText, Description: "Trương Nam Hương - Cảm xúc về lời ru và tình mẹ.", ContentHTML: "<p>Phân tích hình ảnh người mẹ và ý nghĩa lời ru.</p>"},
			{ID: "l1_vb2", Title: "Văn bản 2: Nhớ đồng", Type: curriculum.SubMainText, Description: "Tố Hữu - Nỗi nhớ quê hương và khát vọng tự do.", ContentHTML: "<p>Cảm xúc của nhà thơ trong những ngày bị giam cầm.</p>"},
			{ID: "l1_practice", Title: "Thực hành Tiếng Việt", Type: curriculum.SubPractice, Description: "Từ tượng hình, từ tượng thanh.", ContentHTML: "<p>Nhận biết và phân tích tác dụng của từ tượng hình, từ tượng thanh.</p>"},
			{ID: "l1_write", Title: "Viết: Làm bài thơ sáu chữ hoặc bảy chữ", Type: curriculum.SubWrite, Description: "Sáng tác thơ thể hiện cảm xúc.", ContentHTML: "<p>Hướng dẫn luật thơ và cách gieo vần.</p>"},
			{ID: "l1_review", Title: "Ôn tập & Nói và nghe", Type: curriculum.SubReview, Description: "Tóm tắt nội dung thuyết trình của người khác.", ContentHTML: "<p>Hệ thống hóa kiến thức bài 1.</p>"},
		},
	},
	{
		ID:               "lesson-2",
		Order:            2,
		Title:            "Bài 2: Những bí ẩn của thế giới tự nhiên",
		Description:      "Văn bản thông tin giải thích hiện tượng tự nhiên.",
		MonthUnlock:      9,
		IntroductionHTML: "<p>Tri thức ngữ văn: văn bản thông tin; các kiểu đoạn văn.</p>",
		IsPublished:      true,
		SubLessons: []curriculum.SubLesson{
			{ID: "l2_vb1", Title: "Văn bản 1: Bạn đã biết gì về sóng thần?", Type: curriculum.SubMainText, Description: "Giải thích cơ chế và tác hại của sóng thần.", ContentHTML: "<p>Nguyên nhân, dấu hiệu và cách phòng tránh sóng thần.</p>"},
			{ID: "l2_connect", Title: "Đọc kết nối: Mưa Xuân II", Type: curriculum.SubConnect, Description: "Nguyễn Bính - Vẻ đẹp thiên nhiên mùa xuân.", ContentHTML: "<p>Bức tranh thiên nhiên và tình cảm của tác giả.</p>"},
			{ID: "l2_practice", Title: "Thực hành Tiếng Việt", Type: curriculum.SubPractice, Description: "Đoạn văn diễn dịch, quy nạp, song song, phối hợp.", ContentHTML: "<p>Nhận diện và viết các kiểu đoạn văn.</p>"},
			{ID: "l2_write", Title: "Viết: Văn bản thuyết minh", Type: curriculum.SubWrite, Description: "Giải thích một hiện tượng tự nhiên.", ContentHTML: "<p>Quy trình viết bài văn thuyết minh.</p>"},
		},
	},
	{
		ID:               "lesson-3",
		Order:            3,
		Title:            "Bài 3: Sự sống thiêng liêng",
		Description:      "Văn bản nghị luận về con người và thiên nhiên.",
		MonthUnlock:      10,
		IntroductionHTML: "<p>Tri thức ngữ văn: luận đề, luận điểm, bằng chứng; từ Hán Việt.</p>",
		IsPublished:      true,
		SubLessons: []curriculum.SubLesson{
			{ID: "l3_vb1", Title: "Văn bản 1: Bức thư của thủ lĩnh da đỏ", Type: curriculum.SubMainText, Description: "Xi-át-tơn - Thông điệp bảo vệ đất mẹ.", ContentHTML: "<p>Tình yêu thiên nhiên và lời cảnh báo của người da đỏ.</p>"},
			{ID: "l3_extend", Title: "Đọc mở rộng: Lối sống đơn giản", Type: curriculum.SubExtend, Description: "Xu thế của thế kỷ XXI.", ContentHTML: "<p>Bàn về lối sống tối giản và hòa hợp môi trường.</p>"},
			{ID: "l3_practice", Title: "Thực hành Tiếng Việt", Type: curriculum.SubPractice, Description: "Từ Hán Việt.", ContentHTML: "<p>Nghĩa của từ Hán Việt và cách sử dụng.</p>"},
			{ID: "l3_review", Title: "Ôn tập & Nói và nghe", Type: curriculum.SubReview, Description: "Trình bày ý kiến về một vấn đề xã hội.", ContentHTML: "<p>Thảo luận và tranh biện về vấn đề xã hội.</p>"},
		},
	},
}

// SyncSampleLessons upserts the sample curriculum: lessons already present
// (matched by title) are updated in place, the rest are added as drafts of
// the sample. The operation is idempotent and safe to re-run.
func (s *Service) SyncSampleLessons(ctx context.Context) (added, updated int, err error) {
	current, err := s.Lessons(ctx)
	if err != nil {
		return 0, 0, err
	}
	byTitle := make(map[string]*curriculum.Lesson, len(current))
	for _, l := range current {
		byTitle[l.Title] = l
	}

	for _, sample := range SampleLessons {
		cp := *sample
		if existing, ok := byTitle[sample.Title]; ok {
			cp.ID = existing.ID
			if err := s.SaveLesson(ctx, &cp); err != nil {
				return added, updated, fmt.Errorf("update %q: %w", sample.Title, err)
			}
			updated++
		} else {
			cp.ID = "new_" + sample.ID
			if err := s.SaveLesson(ctx, &cp); err != nil {
				return added, updated, fmt.Errorf("add %q: %w", sample.Title, err)
			}
			added++
		}
	}
	return added, updated, nil
}
